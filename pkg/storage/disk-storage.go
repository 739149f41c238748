// Package storage persists collection snapshots as gzipped JSON files.
package storage

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/cardbinder/cardbinder/pkg/collection"
)

const snapshotFile = "collection.jz"

type DiskStorage struct {
	BasePath string
}

func NewDiskStorage(basePath string) *DiskStorage {
	return &DiskStorage{BasePath: basePath}
}

// GetFileName returns the final path and the temporary path writes go to
// before the atomic rename.
func (d *DiskStorage) GetFileName(filename string) (string, string) {
	fileName := path.Join(d.BasePath, filename)
	return fileName, fileName + ".tmp"
}

func (d *DiskStorage) SaveGzippedJson(data any, filename string) error {
	fileName, tmpFileName := d.GetFileName(filename)
	if err := os.MkdirAll(d.BasePath, 0755); err != nil {
		return err
	}

	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}

	zipWriter := gzip.NewWriter(file)
	if err := json.NewEncoder(zipWriter).Encode(data); err != nil {
		zipWriter.Close()
		file.Close()
		return err
	}
	if err := zipWriter.Close(); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return os.Rename(tmpFileName, fileName)
}

func (d *DiskStorage) LoadGzippedJson(output any, filename string) error {
	fileName, _ := d.GetFileName(filename)
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	return json.NewDecoder(zipReader).Decode(output)
}

// SaveCollection writes the whole store snapshot to disk.
func (d *DiskStorage) SaveCollection(s *collection.Store) error {
	if err := d.SaveGzippedJson(s.Snapshot(), snapshotFile); err != nil {
		return fmt.Errorf("saving collection snapshot: %w", err)
	}
	return nil
}

// LoadCollection restores the store from the snapshot file. A missing
// file is not an error; the store simply starts empty.
func (d *DiskStorage) LoadCollection(s *collection.Store) error {
	snap := &collection.Snapshot{}
	err := d.LoadGzippedJson(snap, snapshotFile)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading collection snapshot: %w", err)
	}
	s.Restore(snap)
	return nil
}
