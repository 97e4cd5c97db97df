/*
DESCRIPTION
  watch.go provides hot-reload of a Config from a JSON file on disk, and a
  rotating-file logging sink for the ausocean/utils/logging.Logger injected
  throughout this module, mirroring the way long-running capture pipelines
  in this codebase reload settings and rotate logs without a restart.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"encoding/json"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoadFile reads and unmarshals a Config from a JSON file.
func LoadFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "could not read config file %s", path)
	}
	cfg := Default()
	if err := json.Unmarshal(b, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "could not parse config file %s", path)
	}
	return cfg, nil
}

// Watch watches path for writes and invokes onChange with the newly loaded
// Config each time it changes. It runs until stop is closed, and never
// returns an error synchronously except for the initial watcher setup; any
// later read/parse failure is passed through onErr rather than stopping the
// watch, since a transient write-in-progress should not abort a long
// encoding session.
func Watch(path string, stop <-chan struct{}, onChange func(Config), onErr func(error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "could not create config file watcher")
	}
	if err := w.Add(path); err != nil {
		w.Close()
		return errors.Wrapf(err, "could not watch config file %s", path)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-stop:
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := LoadFile(path)
				if err != nil {
					if onErr != nil {
						onErr(err)
					}
					continue
				}
				onChange(cfg)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				if onErr != nil {
					onErr(err)
				}
			}
		}
	}()

	return nil
}

// NewRotatingLogWriter returns an io.WriteCloser suitable as the backing
// writer for an ausocean/utils/logging.Logger, rotating at maxSizeMB
// megabytes and keeping maxBackups old files for maxAgeDays days, the same
// parameters cmd/looper wires into lumberjack.Logger.
func NewRotatingLogWriter(path string, maxSizeMB, maxBackups, maxAgeDays int) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}
}
