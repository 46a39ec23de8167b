package storage

import (
	"encoding/json"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v3"
	"github.com/klauspost/compress/zstd"

	"github.com/annel0/world-graph/internal/logging"
	"github.com/annel0/world-graph/internal/world"
)

const snapshotKey = "graph:snapshot"

// WorldStorage хранит снимки мира и отдельные чанки в BadgerDB.
// Значения сериализуются в JSON и сжимаются zstd: террейн-окна чанков
// сжимаются в разы.
type WorldStorage struct {
	db     *badger.DB
	enc    *zstd.Encoder
	dec    *zstd.Decoder
	logger *logging.Logger
}

// NewWorldStorage открывает хранилище мира по указанному пути
func NewWorldStorage(path string) (*WorldStorage, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger at %s: %w", path, err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("init zstd decoder: %w", err)
	}

	return &WorldStorage{
		db:     db,
		enc:    enc,
		dec:    dec,
		logger: logging.GetStorageLogger(),
	}, nil
}

// Close закрывает хранилище
func (ws *WorldStorage) Close() error {
	ws.enc.Close()
	ws.dec.Close()
	return ws.db.Close()
}

// SaveSnapshot сохраняет полный снимок графа мира
func (ws *WorldStorage) SaveSnapshot(snap *world.GraphSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	compressed := ws.enc.EncodeAll(data, nil)

	err = ws.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(snapshotKey), compressed)
	})
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}

	ws.logger.Info("💾 Snapshot saved: %d chunks, %d passages (%d -> %d bytes)",
		len(snap.Chunks), len(snap.Passages), len(data), len(compressed))
	return nil
}

// LoadSnapshot загружает снимок графа мира.
// Если снимка нет, возвращает (nil, nil): пустое хранилище — не ошибка.
func (ws *WorldStorage) LoadSnapshot() (*world.GraphSnapshot, error) {
	var compressed []byte
	err := ws.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(snapshotKey))
		if err != nil {
			return err
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}

	data, err := ws.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}

	var snap world.GraphSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// SaveChunk сохраняет один чанк отдельным ключом
func (ws *WorldStorage) SaveChunk(cs *world.ChunkSnapshot) error {
	data, err := json.Marshal(cs)
	if err != nil {
		return fmt.Errorf("marshal chunk %d: %w", cs.ID, err)
	}
	compressed := ws.enc.EncodeAll(data, nil)

	err = ws.db.Update(func(txn *badger.Txn) error {
		return txn.Set(chunkKey(cs.ID), compressed)
	})
	if err != nil {
		return fmt.Errorf("save chunk %d: %w", cs.ID, err)
	}
	return nil
}

// LoadChunk загружает один чанк. Отсутствие чанка — (nil, nil).
func (ws *WorldStorage) LoadChunk(id world.ChunkID) (*world.ChunkSnapshot, error) {
	var compressed []byte
	err := ws.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(chunkKey(id))
		if err != nil {
			return err
		}
		compressed, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load chunk %d: %w", id, err)
	}

	data, err := ws.dec.DecodeAll(compressed, nil)
	if err != nil {
		return nil, fmt.Errorf("decompress chunk %d: %w", id, err)
	}

	var cs world.ChunkSnapshot
	if err := json.Unmarshal(data, &cs); err != nil {
		return nil, fmt.Errorf("unmarshal chunk %d: %w", id, err)
	}
	return &cs, nil
}

// DeleteChunk удаляет чанк из хранилища
func (ws *WorldStorage) DeleteChunk(id world.ChunkID) error {
	return ws.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(chunkKey(id))
	})
}

func chunkKey(id world.ChunkID) []byte {
	return []byte(fmt.Sprintf("chunk:%d", id))
}
