// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package configuration

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	filename := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(filename, []byte(content), 0644))
	return filename
}

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, 50, c.BatchSize)
	assert.Equal(t, 300, c.MaxLen)
	assert.True(t, c.UseMask)
	assert.True(t, c.MaskWithType)
	assert.False(t, c.Lower)
	assert.False(t, c.Shuffle)
	assert.Equal(t, 0.2, c.DevRatio)
	assert.NoError(t, c.Validate())
	assert.Nil(t, c.Rand())
}

func TestFromJsonFile(t *testing.T) {
	filename := writeFile(t, "config.json", `{"batch_size": 32, "lower": true, "use_mask": false}`)

	c, err := FromFile(filename)
	require.NoError(t, err)
	assert.Equal(t, 32, c.BatchSize)
	assert.True(t, c.Lower)
	assert.False(t, c.UseMask)
	assert.True(t, c.MaskWithType)
	assert.Equal(t, 300, c.MaxLen)

	_, err = FromJsonFile(writeFile(t, "bad.json", `{"batch_size": "x"}`))
	assert.Error(t, err)
}

func TestFromYamlFile(t *testing.T) {
	filename := writeFile(t, "config.yaml", "batch_size: 16\nmax_len: 120\nshuffle: true\nseed: 7\n")

	c, err := FromFile(filename)
	require.NoError(t, err)
	assert.Equal(t, 16, c.BatchSize)
	assert.Equal(t, 120, c.MaxLen)
	assert.True(t, c.Shuffle)
	assert.Equal(t, int64(7), c.Seed)
	assert.NotNil(t, c.Rand())

	_, err = FromYamlFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("GORELEX_BATCH_SIZE", "8")
	t.Setenv("GORELEX_LOWER", "true")

	c := Default()
	c.MaxLen = 100
	require.NoError(t, c.ApplyEnv())

	assert.Equal(t, 8, c.BatchSize)
	assert.True(t, c.Lower)
	assert.Equal(t, 100, c.MaxLen)
	assert.True(t, c.UseMask)
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv("GORELEX_MAX_LEN", "many")
	assert.Error(t, Default().ApplyEnv())
}

func TestValidate(t *testing.T) {
	c := Default()
	c.BatchSize = 0
	assert.ErrorIs(t, c.Validate(), ErrInvalidBatchSize)

	c = Default()
	c.MaxLen = -1
	assert.ErrorIs(t, c.Validate(), ErrInvalidMaxLen)

	for _, ratio := range []float64{0, 1, math.NaN()} {
		c = Default()
		c.DevRatio = ratio
		assert.ErrorIs(t, c.Validate(), ErrInvalidDevRatio, "dev ratio %v", ratio)
	}
}

func TestApplyEnvNaNDevRatio(t *testing.T) {
	t.Setenv("GORELEX_DEV_RATIO", "NaN")
	c := Default()
	require.NoError(t, c.ApplyEnv())
	assert.ErrorIs(t, c.Validate(), ErrInvalidDevRatio)
}

func TestTagVocabularies(t *testing.T) {
	c := Default()
	pos, ner, err := c.TagVocabularies()
	require.NoError(t, err)
	assert.Equal(t, 47, pos.Len())
	assert.Equal(t, 25, ner.Len())

	c.NerVocab = writeFile(t, "ner.json", `{"<PAD>": 0, "<UNK>": 1, "PER": 2}`)
	_, ner, err = c.TagVocabularies()
	require.NoError(t, err)
	assert.Equal(t, 3, ner.Len())

	c.PosVocab = filepath.Join(t.TempDir(), "missing.json")
	_, _, err = c.TagVocabularies()
	assert.Error(t, err)
}
