// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tacred

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const record = `{"token": ["Bill", "Gates", "founded", "Microsoft", "."], "stanford_pos": ["NNP", "NNP", "VBD", "NNP", "."], "stanford_ner": ["PERSON", "PERSON", "O", "ORGANIZATION", "O"], "subj_start": 0, "subj_end": 1, "subj_type": "PERSON", "obj_start": 3, "obj_end": 3, "obj_type": "ORGANIZATION", "relation": "org:founded_by"}`

func TestReadAll(t *testing.T) {
	instances, err := ReadAll(strings.NewReader("[" + record + "," + record + "]"))
	require.NoError(t, err)
	require.Len(t, instances, 2)

	in := instances[0]
	assert.Equal(t, []string{"Bill", "Gates", "founded", "Microsoft", "."}, in.Token)
	assert.Equal(t, "NNP", in.StanfordPOS[0])
	assert.Equal(t, "ORGANIZATION", in.StanfordNER[3])
	assert.Equal(t, 0, in.SubjStart)
	assert.Equal(t, 1, in.SubjEnd)
	assert.Equal(t, "PERSON", in.SubjType)
	assert.Equal(t, 3, in.ObjStart)
	assert.Equal(t, 3, in.ObjEnd)
	assert.Equal(t, "ORGANIZATION", in.ObjType)
	assert.Equal(t, "org:founded_by", in.Relation)
	assert.NoError(t, in.Validate())
}

func TestReadAllErrors(t *testing.T) {
	_, err := ReadAll(strings.NewReader(record))
	assert.ErrorIs(t, err, ErrNotAnArray)

	_, err = ReadAll(strings.NewReader(`[{"token": 3}]`))
	assert.ErrorIs(t, err, ErrMalformedRecord)

	instances, err := ReadAll(strings.NewReader(`[]`))
	require.NoError(t, err)
	assert.Empty(t, instances)
}

func TestReadAllMissingSpanField(t *testing.T) {
	noSubjStart := `{"token": ["a", "b"], "stanford_pos": ["NN", "NN"], "stanford_ner": ["O", "O"], "subj_end": 0, "obj_start": 1, "obj_end": 1, "relation": "no_relation"}`

	_, err := ReadAll(strings.NewReader("[" + record + "," + noSubjStart + "]"))
	assert.ErrorIs(t, err, ErrMissingSpanField)
	assert.Contains(t, err.Error(), "index 1")
	assert.Contains(t, err.Error(), "subj_start")

	s := NewScanner(strings.NewReader(noSubjStart))
	assert.False(t, s.Scan())
	assert.ErrorIs(t, s.Err(), ErrMissingSpanField)

	_, err = ReadAll(strings.NewReader(`[3]`))
	assert.ErrorIs(t, err, ErrMalformedRecord)
}

func TestScanner(t *testing.T) {
	s := NewScanner(strings.NewReader(record + "\n\n" + record + "\n"))

	count := 0
	for s.Scan() {
		count++
		assert.Equal(t, "org:founded_by", s.Instance().Relation)
	}
	assert.NoError(t, s.Err())
	assert.Equal(t, 2, count)
	assert.Equal(t, 3, s.LineNumber())
}

func TestScannerErrors(t *testing.T) {
	t.Run("malformed json", func(t *testing.T) {
		s := NewScanner(strings.NewReader(record + "\n{not json}\n" + record))
		assert.True(t, s.Scan())
		assert.False(t, s.Scan())
		assert.ErrorIs(t, s.Err(), ErrMalformedRecord)
		assert.Equal(t, 2, s.LineNumber())
		assert.False(t, s.Scan())
	})

	t.Run("missing span field", func(t *testing.T) {
		s := NewScanner(strings.NewReader(`{"token": ["a"], "subj_start": 0, "subj_end": 0, "obj_start": 0}`))
		assert.False(t, s.Scan())
		assert.ErrorIs(t, s.Err(), ErrMissingSpanField)
	})
}

func TestValidate(t *testing.T) {
	in := Instance{Token: []string{"a", "b", "c"}, SubjStart: 0, SubjEnd: 0, ObjStart: 2, ObjEnd: 2}
	assert.NoError(t, in.Validate())

	in.ObjEnd = 3
	assert.ErrorIs(t, in.Validate(), ErrSpanOutOfRange)

	in.ObjEnd = 2
	in.SubjStart = 1
	in.SubjEnd = 0
	assert.ErrorIs(t, in.Validate(), ErrSpanOutOfRange)
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()

	arrayFile := filepath.Join(dir, "array.json")
	require.NoError(t, os.WriteFile(arrayFile, []byte("\n["+record+"]\n"), 0644))
	instances, err := ReadFile(arrayFile)
	require.NoError(t, err)
	assert.Len(t, instances, 1)

	linesFile := filepath.Join(dir, "lines.jsonl")
	require.NoError(t, os.WriteFile(linesFile, []byte(record+"\n"+record+"\n"+record), 0644))
	instances, err = ReadFile(linesFile)
	require.NoError(t, err)
	assert.Len(t, instances, 3)

	partialFile := filepath.Join(dir, "partial.json")
	require.NoError(t, os.WriteFile(partialFile, []byte(`[{"token": ["a"], "subj_start": 0, "subj_end": 0, "obj_start": 0}]`), 0644))
	_, err = ReadFile(partialFile)
	assert.ErrorIs(t, err, ErrMissingSpanField)

	_, err = ReadFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
