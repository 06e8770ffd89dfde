// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// I/O support for TACRED-style relation extraction datasets, where each
// instance is a JSON object holding a tokenized sentence, its POS and NER
// tags, a subject span, an object span and the relation between them.
//
// https://nlp.stanford.edu/projects/tacred/
package tacred

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/nlpodyssey/gorelex/position"
)

type Instance struct {
	Token       []string `json:"token"`
	StanfordPOS []string `json:"stanford_pos"`
	StanfordNER []string `json:"stanford_ner"`
	SubjStart   int      `json:"subj_start"`
	SubjEnd     int      `json:"subj_end"`
	SubjType    string   `json:"subj_type"`
	ObjStart    int      `json:"obj_start"`
	ObjEnd      int      `json:"obj_end"`
	ObjType     string   `json:"obj_type"`
	Relation    string   `json:"relation"`
}

// Errors returned by the readers and by Instance.Validate.
var (
	ErrNotAnArray       = errors.New("tacred: expected a JSON array of instances")
	ErrMalformedRecord  = errors.New("tacred: malformed instance record")
	ErrSpanOutOfRange   = errors.New("tacred: entity span out of range")
	ErrMissingSpanField = errors.New("tacred: missing span field")
)

// Validate checks that both entity spans lie inside the token sequence.
func (in *Instance) Validate() error {
	n := len(in.Token)
	if !position.Valid(in.SubjStart, in.SubjEnd, n) {
		return fmt.Errorf("%w: subject [%d, %d] in %d tokens", ErrSpanOutOfRange, in.SubjStart, in.SubjEnd, n)
	}
	if !position.Valid(in.ObjStart, in.ObjEnd, n) {
		return fmt.Errorf("%w: object [%d, %d] in %d tokens", ErrSpanOutOfRange, in.ObjStart, in.ObjEnd, n)
	}
	return nil
}

// ReadAll decodes a JSON array of instances.
func ReadAll(r io.Reader) ([]Instance, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnArray, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, ErrNotAnArray
	}

	instances := make([]Instance, 0)
	for dec.More() {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w at index %d: %v", ErrMalformedRecord, len(instances), err)
		}
		in, err := decodeInstance(raw)
		if err != nil {
			return nil, fmt.Errorf("index %d: %w", len(instances), err)
		}
		instances = append(instances, in)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotAnArray, err)
	}
	return instances, nil
}

// ReadFile reads instances from a file holding either a JSON array or one
// JSON object per line.
func ReadFile(filename string) ([]Instance, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		instances, err := ReadAll(bytes.NewReader(trimmed))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		return instances, nil
	}

	s := NewScanner(bytes.NewReader(data))
	instances := make([]Instance, 0)
	for s.Scan() {
		instances = append(instances, s.Instance())
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("%s:%d: %w", filename, s.LineNumber(), err)
	}
	return instances, nil
}

// Scanner reads instances stored as one JSON object per line. Blank lines
// are skipped.
type Scanner struct {
	bufScanner *bufio.Scanner
	err        error
	lineNumber int
	instance   Instance
}

const maxLineSize = 1 << 22

func NewScanner(r io.Reader) *Scanner {
	bs := bufio.NewScanner(r)
	bs.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Scanner{
		bufScanner: bs,
	}
}

// Err returns the first non-EOF error that was encountered by the Scanner.
func (s *Scanner) Err() error {
	if s.err != nil {
		return s.err
	}
	return s.bufScanner.Err()
}

func (s *Scanner) LineNumber() int {
	return s.lineNumber
}

// Instance returns the most recent instance read by Scan.
func (s *Scanner) Instance() Instance {
	return s.instance
}

func (s *Scanner) Scan() bool {
	if s.Err() != nil {
		return false
	}

	for s.bufScanner.Scan() {
		s.lineNumber++
		line := bytes.TrimSpace(s.bufScanner.Bytes())
		if len(line) == 0 {
			continue
		}
		return s.parseInstance(line)
	}
	return false
}

func (s *Scanner) parseInstance(line []byte) bool {
	in, err := decodeInstance(line)
	if err != nil {
		s.err = err
		return false
	}
	s.instance = in
	return true
}

var spanFields = []string{"subj_start", "subj_end", "obj_start", "obj_end"}

// decodeInstance decodes a single JSON object. The span offsets have no
// usable zero value, so each of them must be present.
func decodeInstance(data []byte) (Instance, error) {
	var in Instance
	if err := json.Unmarshal(data, &in); err != nil {
		return in, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return in, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	for _, field := range spanFields {
		if _, ok := fields[field]; !ok {
			return in, fmt.Errorf("%w: %s", ErrMissingSpanField, field)
		}
	}
	return in, nil
}
