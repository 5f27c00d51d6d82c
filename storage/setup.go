// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"
	"sync"

	"github.com/syndtr/goleveldb/leveldb"
	ldb_opt "github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/bitmark-inc/logger"
	"github.com/bitmark-inc/poolkeeper/fault"
)

// Handles - the set of exported pools
//
// note all must be exported (i.e. initial capital) or initialisation will panic
type Handles struct {
	Pools        *PoolHandle `prefix:"P"`
	Blocks       *PoolHandle `prefix:"B"`
	Unconfirmed  *PoolHandle `prefix:"U"`
	Confirmed    *PoolHandle `prefix:"C"`
	GlobalStates *PoolHandle `prefix:"G"`
	TestData     *PoolHandle `prefix:"Z"`
}

// Store - an open database and its pools
type Store struct {
	Handles

	sync.RWMutex
	log      *logger.L
	db       *leveldb.DB
	cache    *readCache
	readOnly bool

	trxLock sync.Mutex
	trx     *transaction
}

// for database version
var versionKey = []byte{0x00, 'V', 'E', 'R', 'S', 'I', 'O', 'N'}

const currentDBVersion = 0x100

// pool access modes
const (
	ReadOnly  = true
	ReadWrite = false
)

// Open - open up the database connection
//
// a database written by a newer version of the program is refused
func Open(database string, readOnly bool) (*Store, error) {
	log := logger.New("storage")

	db, version, err := getDB(database, readOnly)
	if nil != err {
		return nil, err
	}

	ok := false
	defer func() {
		if !ok {
			db.Close()
		}
	}()

	// ensure no database downgrade
	if version > currentDBVersion {
		log.Criticalf("database version: %d > current version: %d", version, currentDBVersion)
		return nil, fmt.Errorf("database version: %d > current version: %d: %w", version, currentDBVersion, fault.ErrDatabaseVersion)
	}

	if 0 == version && !readOnly {
		// database was empty so tag as current version
		err = putVersion(db, currentDBVersion)
		if nil != err {
			return nil, err
		}
	}

	s := &Store{
		log:      log,
		db:       db,
		cache:    newReadCache(),
		readOnly: readOnly,
	}

	err = s.setupHandles()
	if nil != err {
		return nil, err
	}

	log.Infof("opened: %q  version: %d  read only: %t", database, version, readOnly)

	ok = true // prevent db close
	return s, nil
}

// scan each field of the handles struct and attach a prefix handle
func (s *Store) setupHandles() error {

	// this will be a struct type
	handleType := reflect.TypeOf(s.Handles)

	// get write access by using pointer + Elem()
	handleValue := reflect.ValueOf(&s.Handles).Elem()

	for i := 0; i < handleType.NumField(); i += 1 {

		fieldInfo := handleType.Field(i)

		prefixTag := fieldInfo.Tag.Get("prefix")
		if 1 != len(prefixTag) {
			return fmt.Errorf("pool: %v has invalid prefix: %q: %w", fieldInfo.Name, prefixTag, fault.ErrInvalidPrefix)
		}

		prefix := prefixTag[0]
		limit := []byte(nil)
		if prefix < 255 {
			limit = []byte{prefix + 1}
		}

		p := &PoolHandle{
			prefix: prefix,
			limit:  limit,
			store:  s,
		}
		handleValue.Field(i).Set(reflect.ValueOf(p))
	}
	return nil
}

// Close - close the database connection
//
// any open transaction is discarded
func (s *Store) Close() {
	s.trxLock.Lock()
	if nil != s.trx {
		s.trx.discard()
		s.trx = nil
	}
	s.trxLock.Unlock()

	s.Lock()
	defer s.Unlock()
	if nil != s.db {
		s.db.Close()
		s.db = nil
	}
	s.cache.clear()
}

// return:
//   database handle
//   version number
func getDB(name string, readOnly bool) (*leveldb.DB, int, error) {
	opt := &ldb_opt.Options{
		ErrorIfExist:   false,
		ErrorIfMissing: readOnly,
		ReadOnly:       readOnly,
	}

	db, err := leveldb.OpenFile(name, opt)
	if nil != err {
		return nil, 0, err
	}

	versionValue, err := db.Get(versionKey, nil)
	if leveldb.ErrNotFound == err {
		return db, 0, nil
	} else if nil != err {
		db.Close()
		return nil, 0, err
	}

	if 4 != len(versionValue) {
		db.Close()
		return nil, 0, fmt.Errorf("incompatible database version length: expected: %d  actual: %d", 4, len(versionValue))
	}

	version := int(binary.BigEndian.Uint32(versionValue))
	return db, version, nil
}

func putVersion(db *leveldb.DB, version int) error {
	currentVersion := make([]byte, 4)
	binary.BigEndian.PutUint32(currentVersion, uint32(version))

	return db.Put(versionKey, currentVersion, nil)
}
