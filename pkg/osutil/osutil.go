// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package osutil

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
)

const (
	DefaultDirPerm  = 0755
	DefaultFilePerm = 0644
)

// IsExist returns true if the file name exists.
func IsExist(name string) bool {
	_, err := os.Stat(name)
	return err == nil
}

// IsDir returns true if name exists and is a directory.
func IsDir(name string) bool {
	st, err := os.Stat(name)
	return err == nil && st.IsDir()
}

func MkdirAll(dir string) error {
	return os.MkdirAll(dir, DefaultDirPerm)
}

// WriteFile writes data creating parent directories as necessary.
func WriteFile(filename string, data []byte) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := MkdirAll(dir); err != nil {
			return err
		}
	}
	return os.WriteFile(filename, data, DefaultFilePerm)
}

// HandleInterrupts calls shutdown on first SIGINT
// (expecting that the program will finish in-flight work and exit)
// and terminates the process on second SIGINT.
func HandleInterrupts(shutdown func()) {
	go func() {
		c := make(chan os.Signal, 2)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		shutdown()
		fmt.Fprint(os.Stderr, "SIGINT: shutting down...\n")
		<-c
		fmt.Fprint(os.Stderr, "SIGINT: terminating\n")
		os.Exit(int(syscall.SIGINT))
	}()
}
