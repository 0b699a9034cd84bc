// Copyright 2026 misrascan project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package cscan

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Report is the machine-readable form of a batch scan.
type Report struct {
	RunID   string        `json:"run_id"`
	Precise bool          `json:"precise"`
	Rules   []string      `json:"rules"`
	Files   []*FileReport `json:"files"`
}

type FileReport struct {
	File       string             `json:"file"`
	Violations []*ViolationReport `json:"violations,omitempty"`
	Warnings   []string           `json:"warnings,omitempty"`
	Error      string             `json:"error,omitempty"`
}

type ViolationReport struct {
	Rule  string `json:"rule"`
	Desc  string `json:"desc"`
	Line  int    `json:"line"`
	Col   int    `json:"col"`
	Match string `json:"match"`
}

// NewReport converts results into a report with a fresh run id.
// rules lists the ids of the checked rules.
func NewReport(results []*FileResult, rules []string, precise bool) *Report {
	rep := &Report{
		RunID:   uuid.New().String(),
		Precise: precise,
		Rules:   rules,
		Files:   []*FileReport{},
	}
	for _, fr := range results {
		file := &FileReport{File: fr.File}
		rep.Files = append(rep.Files, file)
		if fr.Err != nil {
			file.Error = fr.Err.Error()
			continue
		}
		for _, v := range fr.Result.Violations {
			file.Violations = append(file.Violations, &ViolationReport{
				Rule:  v.Rule.ID,
				Desc:  v.Rule.Desc,
				Line:  v.Pos.Line,
				Col:   v.Pos.Col + 1,
				Match: v.Match,
			})
		}
		for _, warn := range fr.Result.Warnings {
			file.Warnings = append(file.Warnings, warn.Error())
		}
	}
	return rep
}

func (rep *Report) WriteJSON(w io.Writer) error {
	data, err := json.MarshalIndent(rep, "", "\t")
	if err != nil {
		return err
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteText writes per-file text reports in the order of results.
// If detailed is set, positions, descriptions and lexical warnings are included.
func WriteText(w io.Writer, results []*FileResult, detailed bool) error {
	buf := new(bytes.Buffer)
	for _, fr := range results {
		var err error
		switch {
		case fr.Err != nil:
			fmt.Fprintf(buf, "Failed to scan %v: %v\n", fr.File, fr.Err)
		case detailed:
			err = fr.Result.FormatDetailed(buf)
		default:
			err = fr.Result.Format(buf)
		}
		if err != nil {
			return err
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// DiffText compares two text reports line by line.
// It returns "" if they are equal, otherwise changed lines prefixed with - and +.
func DiffText(baseline, current string) string {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(baseline, current)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)
	buf := new(strings.Builder)
	for _, d := range diffs {
		prefix := ""
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			buf.WriteString(prefix + line)
			if !strings.HasSuffix(line, "\n") {
				buf.WriteString("\n")
			}
		}
	}
	return buf.String()
}
