// WellnessRec - Hybrid Wellness Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/wellnessrec

package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/goccy/go-json"

	"github.com/tomtom215/wellnessrec/internal/recommend"
)

// Key layout. Every data key is "<prefix><userID>"; the metadata record is
// written last and acts as the commit marker of a snapshot.
const (
	metaKey        = "snapshot:meta"
	settingsKey    = "snapshot:settings"
	ratingsPrefix  = "ratings:"
	profilesPrefix = "profiles:"
	feedbackPrefix = "feedback:"
)

var (
	// ErrNoSnapshot is returned by Load when nothing was saved yet.
	ErrNoSnapshot = errors.New("no snapshot stored")

	// ErrChecksumMismatch is returned by Load when the stored data does not
	// match the checksum recorded at save time.
	ErrChecksumMismatch = errors.New("snapshot checksum mismatch")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("snapshot store closed")
)

// Options configures the snapshot store.
type Options struct {
	// Path is the BadgerDB directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps the database in memory; snapshots do not survive a restart.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool

	// Compression enables Snappy block compression.
	Compression bool
}

// SnapshotMetadata describes the stored snapshot.
type SnapshotMetadata struct {
	// Version increases by one on every Save.
	Version int64 `json:"version"`

	// SavedAt is when the snapshot was committed.
	SavedAt time.Time `json:"saved_at"`

	// Interactions, Users, Profiles and FeedbackEvents count the stored records.
	Interactions   int `json:"interactions"`
	Users          int `json:"users"`
	Profiles       int `json:"profiles"`
	FeedbackEvents int `json:"feedback_events"`

	// Checksum is the SHA-256 of every data key and value in key order.
	Checksum string `json:"checksum"`

	// SizeBytes is the total encoded size of the data values.
	SizeBytes int64 `json:"size_bytes"`
}

// settingsRecord holds the tuning part of the engine state.
type settingsRecord struct {
	Weights    recommend.EnsembleWeights    `json:"weights"`
	Objectives recommend.BusinessObjectives `json:"objectives"`
}

// Store persists engine state snapshots in BadgerDB.
//
// Save replaces the previous snapshot. Store is safe for concurrent use;
// saves and loads are serialized.
type Store struct {
	mu     sync.Mutex
	db     *badger.DB
	closed bool
}

// Open opens (or creates) a snapshot store.
func Open(opts Options) (*Store, error) {
	if !opts.InMemory && strings.TrimSpace(opts.Path) == "" {
		return nil, fmt.Errorf("snapshot store path is required")
	}

	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.SyncWrites = opts.SyncWrites
	if opts.Compression {
		bopts.Compression = options.Snappy
	}

	// Reduce logging verbosity
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return &Store{db: db}, nil
}

// NewFromDB wraps an already opened database. The store takes ownership
// and closes db on Close.
func NewFromDB(db *badger.DB) *Store {
	return &Store{db: db}
}

// kv is one encoded record of a snapshot.
type kv struct {
	key   []byte
	value []byte
}

// Save replaces the stored snapshot with st and returns its metadata.
func (s *Store) Save(ctx context.Context, st *recommend.State) (*SnapshotMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}

	records, meta, err := encodeState(st)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prev, err := s.metadataLocked()
	if err != nil && !errors.Is(err, ErrNoSnapshot) {
		return nil, err
	}
	if prev != nil {
		meta.Version = prev.Version + 1
	} else {
		meta.Version = 1
	}

	// Drop the commit marker first so a failed save is never read back as
	// a complete snapshot.
	if err := s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(metaKey)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("clear snapshot marker: %w", err)
	}
	if err := s.db.DropPrefix([]byte(ratingsPrefix), []byte(profilesPrefix), []byte(feedbackPrefix), []byte(settingsKey)); err != nil {
		return nil, fmt.Errorf("drop previous snapshot: %w", err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for i, r := range records {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		if err := wb.Set(r.key, r.value); err != nil {
			return nil, fmt.Errorf("write %s: %w", r.key, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return nil, fmt.Errorf("flush snapshot: %w", err)
	}

	meta.SavedAt = time.Now().UTC()
	data, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot metadata: %w", err)
	}
	if err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(metaKey), data)
	}); err != nil {
		return nil, fmt.Errorf("commit snapshot: %w", err)
	}

	return meta, nil
}

// encodeState splits st into per-user records sorted by key and computes
// the snapshot checksum.
func encodeState(st *recommend.State) ([]kv, *SnapshotMetadata, error) {
	meta := &SnapshotMetadata{}
	var records []kv

	ratings := make(map[string]map[string]float64)
	for _, in := range st.Interactions {
		if in.UserID == "" || in.ItemID == "" {
			continue
		}
		if ratings[in.UserID] == nil {
			ratings[in.UserID] = make(map[string]float64)
		}
		ratings[in.UserID][in.ItemID] = in.Rating
	}
	for user, items := range ratings {
		data, err := json.Marshal(items)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal ratings of %s: %w", user, err)
		}
		records = append(records, kv{key: []byte(ratingsPrefix + user), value: data})
		meta.Interactions += len(items)
	}
	meta.Users = len(ratings)

	for user, profiles := range st.Profiles {
		if len(profiles) == 0 {
			continue
		}
		data, err := json.Marshal(profiles)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal profiles of %s: %w", user, err)
		}
		records = append(records, kv{key: []byte(profilesPrefix + user), value: data})
		meta.Profiles += len(profiles)
	}

	for user, events := range st.Feedback {
		if len(events) == 0 {
			continue
		}
		data, err := json.Marshal(events)
		if err != nil {
			return nil, nil, fmt.Errorf("marshal feedback of %s: %w", user, err)
		}
		records = append(records, kv{key: []byte(feedbackPrefix + user), value: data})
		meta.FeedbackEvents += len(events)
	}

	data, err := json.Marshal(settingsRecord{Weights: st.Weights, Objectives: st.Objectives})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal settings: %w", err)
	}
	records = append(records, kv{key: []byte(settingsKey), value: data})

	sort.Slice(records, func(i, j int) bool {
		return bytes.Compare(records[i].key, records[j].key) < 0
	})

	h := sha256.New()
	for _, r := range records {
		h.Write(r.key)
		h.Write(r.value)
		meta.SizeBytes += int64(len(r.value))
	}
	meta.Checksum = hex.EncodeToString(h.Sum(nil))

	return records, meta, nil
}

// Load reads the stored snapshot and verifies its checksum.
func (s *Store) Load(ctx context.Context) (*recommend.State, *SnapshotMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, nil, ErrClosed
	}

	meta, err := s.metadataLocked()
	if err != nil {
		return nil, nil, err
	}

	st := &recommend.State{
		Profiles: make(map[string]map[string]recommend.WellnessProfile),
		Feedback: make(map[string][]recommend.FeedbackEvent),
	}
	h := sha256.New()

	err = s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			item := it.Item()
			key := string(item.Key())
			if key == metaKey {
				continue
			}
			val, err := item.ValueCopy(nil)
			if err != nil {
				return fmt.Errorf("read %s: %w", key, err)
			}
			h.Write(item.Key())
			h.Write(val)

			if err := decodeRecord(st, key, val); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	if checksum := hex.EncodeToString(h.Sum(nil)); checksum != meta.Checksum {
		return nil, nil, fmt.Errorf("%w: expected %s, got %s", ErrChecksumMismatch, meta.Checksum, checksum)
	}

	sort.SliceStable(st.Interactions, func(i, j int) bool {
		a, b := st.Interactions[i], st.Interactions[j]
		if a.UserID != b.UserID {
			return a.UserID < b.UserID
		}
		return a.ItemID < b.ItemID
	})
	return st, meta, nil
}

// decodeRecord merges one stored record into st.
func decodeRecord(st *recommend.State, key string, val []byte) error {
	switch {
	case key == settingsKey:
		var settings settingsRecord
		if err := json.Unmarshal(val, &settings); err != nil {
			return fmt.Errorf("decode settings: %w", err)
		}
		st.Weights = settings.Weights
		st.Objectives = settings.Objectives

	case strings.HasPrefix(key, ratingsPrefix):
		user := strings.TrimPrefix(key, ratingsPrefix)
		var items map[string]float64
		if err := json.Unmarshal(val, &items); err != nil {
			return fmt.Errorf("decode ratings of %s: %w", user, err)
		}
		for item, rating := range items {
			st.Interactions = append(st.Interactions, recommend.Interaction{UserID: user, ItemID: item, Rating: rating})
		}

	case strings.HasPrefix(key, profilesPrefix):
		user := strings.TrimPrefix(key, profilesPrefix)
		var profiles map[string]recommend.WellnessProfile
		if err := json.Unmarshal(val, &profiles); err != nil {
			return fmt.Errorf("decode profiles of %s: %w", user, err)
		}
		st.Profiles[user] = profiles

	case strings.HasPrefix(key, feedbackPrefix):
		user := strings.TrimPrefix(key, feedbackPrefix)
		var events []recommend.FeedbackEvent
		if err := json.Unmarshal(val, &events); err != nil {
			return fmt.Errorf("decode feedback of %s: %w", user, err)
		}
		st.Feedback[user] = events
	}
	return nil
}

// Metadata returns the metadata of the stored snapshot.
func (s *Store) Metadata() (*SnapshotMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, ErrClosed
	}
	return s.metadataLocked()
}

func (s *Store) metadataLocked() (*SnapshotMetadata, error) {
	var meta SnapshotMetadata
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(metaKey))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoSnapshot
		}
		if err != nil {
			return fmt.Errorf("get snapshot metadata: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
	})
	if err != nil {
		return nil, err
	}
	return &meta, nil
}

// RunGC reclaims value log space left behind by replaced snapshots.
// It returns nil when there was nothing to collect.
func (s *Store) RunGC(discardRatio float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	err := s.db.RunValueLogGC(discardRatio)
	switch {
	case err == nil, errors.Is(err, badger.ErrNoRewrite), errors.Is(err, badger.ErrGCInMemoryMode):
		return nil
	default:
		return fmt.Errorf("value log gc: %w", err)
	}
}

// Close closes the underlying database. Further calls are no-ops.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
