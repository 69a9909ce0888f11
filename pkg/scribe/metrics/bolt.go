package metrics

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var updatesBucket = []byte("updates")

// BoltRecorder persists every recorded Update to an embedded bbolt database,
// so a CLI run (scribe bench) can accumulate history across process
// invocations: one bucket, a sequence-numbered key per record, JSON-encoded
// values.
type BoltRecorder struct {
	db *bbolt.DB
}

// OpenBoltRecorder opens (creating if absent) a bbolt database at path and
// ensures its bucket exists.
func OpenBoltRecorder(path string) (*BoltRecorder, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("metrics: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(updatesBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("metrics: init bucket: %w", err)
	}
	return &BoltRecorder{db: db}, nil
}

// Record persists u under the bucket's next sequence number. A write
// failure is swallowed rather than propagated: Recorder.Record has no error
// return, since observability must never perturb the reconcile it is
// measuring, so a failed persist just means that one sample is lost.
func (r *BoltRecorder) Record(u Update) {
	_ = r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(updatesBucket)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		data, err := json.Marshal(u)
		if err != nil {
			return err
		}
		return b.Put([]byte(fmt.Sprintf("%020d", seq)), data)
	})
}

// Recent returns up to limit of the most recently recorded Updates, newest
// first, via a reverse bucket cursor walk (internal/storage's
// QueryEvents walks c.Last()/c.Prev() the same way).
func (r *BoltRecorder) Recent(limit int) ([]Update, error) {
	var out []Update
	err := r.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket(updatesBucket)
		c := b.Cursor()
		for k, v := c.Last(); k != nil && len(out) < limit; k, v = c.Prev() {
			var u Update
			if err := json.Unmarshal(v, &u); err != nil {
				return fmt.Errorf("metrics: decode %s: %w", k, err)
			}
			out = append(out, u)
		}
		return nil
	})
	return out, err
}

// Close closes the underlying database.
func (r *BoltRecorder) Close() error {
	return r.db.Close()
}
