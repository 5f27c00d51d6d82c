// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/poolkeeper/chain"
	"github.com/bitmark-inc/poolkeeper/fault"
	"github.com/bitmark-inc/poolkeeper/publish"
	"github.com/bitmark-inc/poolkeeper/rpc"
)

// basic defaults (directories and files are relative to the "DataDirectory" from Configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file

	defaultSeedFile = "poolkeeper.seed"

	defaultLevelDBDirectory = "data"

	defaultLogDirectory = "log"
	defaultLogFile      = "poolkeeperd.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRPCClients     = 10
	defaultSampleInterval = 60 // seconds
)

// LoglevelMap - to hold log levels
type LoglevelMap map[string]string

// a fresh map each time as the configuration file is merged into it
func defaultLogLevels() LoglevelMap {
	return LoglevelMap{
		logger.DefaultTag: "critical",
	}
}

// DatabaseType - LevelDB location
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// MetricsType - prometheus endpoint, blank listen disables it
type MetricsType struct {
	Listen         string `gluamapper:"listen" json:"listen"`
	SampleInterval int    `gluamapper:"sample_interval" json:"sample_interval"`
}

// Interval - time between samples of the pipeline status
func (m MetricsType) Interval() time.Duration {
	return time.Duration(m.SampleInterval) * time.Second
}

// Configuration - the daemon settings
type Configuration struct {
	DataDirectory     string       `gluamapper:"data_directory" json:"data_directory"`
	PidFile           string       `gluamapper:"pidfile" json:"pidfile"`
	Chain             string       `gluamapper:"chain" json:"chain"`
	FinalizeThreshold uint32       `gluamapper:"finalize_threshold" json:"finalize_threshold"`
	Database          DatabaseType `gluamapper:"database" json:"database"`
	SeedFile          string       `gluamapper:"seed_file" json:"seed_file"`
	Orchestrator      string       `gluamapper:"orchestrator" json:"orchestrator"`

	RPC     rpc.Configuration     `gluamapper:"rpc" json:"rpc"`
	Publish publish.Configuration `gluamapper:"publish" json:"publish"`
	Metrics MetricsType           `gluamapper:"metrics" json:"metrics"`
	Logging logger.Configuration  `gluamapper:"logging" json:"logging"`
}

// Get - read decode and verify the configuration
func Get(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       "", // no PidFile by default
		Chain:         chain.Bitcoin,
		SeedFile:      defaultSeedFile,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      "", // default depends on chain
		},

		RPC: rpc.Configuration{
			MaximumConnections: defaultRPCClients,
		},

		Metrics: MetricsType{
			SampleInterval: defaultSampleInterval,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels:    defaultLogLevels(),
		},
	}

	if err := ParseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	// abort if the chain name is not recognised
	options.Chain = strings.ToLower(options.Chain)
	if !chain.Valid(options.Chain) {
		return nil, fmt.Errorf("chain: %q: %w", options.Chain, fault.ErrInvalidChain)
	}

	if 0 == options.FinalizeThreshold {
		options.FinalizeThreshold = chain.FinalizeThreshold(options.Chain)
	}

	if "" == options.Database.Name {
		options.Database.Name = options.Chain + ".leveldb"
	}

	// blank orchestrator is allowed: every chain operation is refused
	options.Orchestrator = strings.ToLower(strings.TrimSpace(options.Orchestrator))
	if "" != options.Orchestrator {
		fin, err := hex.DecodeString(options.Orchestrator)
		if nil != err || 32 != len(fin) {
			return nil, fmt.Errorf("orchestrator: %q: %w", options.Orchestrator, fault.ErrInvalidOrchestrator)
		}
	}

	if options.Metrics.SampleInterval <= 0 {
		options.Metrics.SampleInterval = defaultSampleInterval
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = filepath.Clean(dataDirectory) // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths
	// if not, assign them to the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.SeedFile,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = ensureAbsolute(options.DataDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	if "" != options.PidFile {
		options.PidFile = ensureAbsolute(options.DataDirectory, options.PidFile)
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path separator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second (or nil if no prefix can be added)
	mustNotBePaths := [][2]*string{
		{&options.Database.Name, &options.Database.Directory},
		{&options.Logging.File, nil},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(*f[0]) {
		case "", ".":
			if nil != f[1] {
				*f[0] = ensureAbsolute(*f[1], *f[0])
			}
		default:
			return nil, fmt.Errorf("files: %q is not plain name", *f[0])
		}
	}

	// create directories if they do not already exist
	for _, d := range []string{
		options.Database.Directory,
		options.Logging.Directory,
	} {
		if err := os.MkdirAll(d, 0700); nil != err {
			return nil, err
		}
	}

	// done
	return options, nil
}

// ensure the path is absolute
func ensureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}
