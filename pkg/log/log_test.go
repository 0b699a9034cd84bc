// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package log

import (
	"bytes"
	"fmt"
	"testing"
)

func TestVerbosity(t *testing.T) {
	buf := new(bytes.Buffer)
	SetOutput(buf, false)
	defer SetVerbosity(-1)
	tests := []struct {
		level int
		want  string
	}{
		{0, "v0\nerror: e\n"},
		{1, "v0\nv1\nerror: e\n"},
		{2, "v0\nv1\nv2\nerror: e\n"},
	}
	for _, test := range tests {
		t.Run(fmt.Sprint(test.level), func(t *testing.T) {
			buf.Reset()
			SetVerbosity(test.level)
			Logf(0, "v0")
			Logf(1, "v1")
			Logf(2, "v%v", 2)
			Errorf("e")
			if got := buf.String(); got != test.want {
				t.Fatalf("got:\n%q\nwant:\n%q", got, test.want)
			}
		})
	}
}
