// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/nlpodyssey/gorelex/configuration"
	"github.com/nlpodyssey/gorelex/corpusio/tacred"
	"github.com/nlpodyssey/gorelex/dataset"
	"github.com/nlpodyssey/gorelex/eval"
	"github.com/nlpodyssey/gorelex/metrics"
	"github.com/nlpodyssey/gorelex/relation"
	"github.com/nlpodyssey/gorelex/vocabulary"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	errMissingInstances = errors.New("missing instances file (-i)")
	errMissingRelations = errors.New("missing relation vocabulary (-r or relation_vocab)")
	errMissingPredicted = errors.New("missing predictions file (-p)")
)

// inputFlags are shared by every command.
type inputFlags struct {
	config    string
	instances string
	relations string
	words     string
}

func (f *inputFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.config, "c", "", "Configuration file (JSON or YAML)")
	fs.StringVar(&f.instances, "i", "", "Instances file")
	fs.StringVar(&f.relations, "r", "", "Relation vocabulary file")
	fs.StringVar(&f.words, "w", "", "Word vocabulary file")
}

// input is everything a command needs to build datasets.
type input struct {
	config    *configuration.Configuration
	instances []tacred.Instance
	vocabs    dataset.Vocabularies
	relations *vocabulary.Vocabulary
}

func (f *inputFlags) load() (*input, error) {
	config, err := loadConfiguration(f.config)
	if err != nil {
		return nil, err
	}

	if f.instances == "" {
		return nil, errMissingInstances
	}
	instances, err := tacred.ReadFile(f.instances)
	if err != nil {
		return nil, fmt.Errorf("error reading instances: %w", err)
	}

	in := &input{config: config, instances: instances}

	in.vocabs.POS, in.vocabs.NER, err = config.TagVocabularies()
	if err != nil {
		return nil, err
	}

	wordsFile := firstNonEmpty(f.words, config.WordVocab)
	if wordsFile == "" {
		slog.Warn("no word vocabulary given, every word maps to the unknown id")
		in.vocabs.Words = vocabulary.New()
	} else if in.vocabs.Words, err = vocabulary.LoadJSON(wordsFile); err != nil {
		return nil, fmt.Errorf("error loading word vocabulary: %w", err)
	}

	if relationsFile := firstNonEmpty(f.relations, config.RelationVocab); relationsFile != "" {
		if in.relations, err = relation.LoadVocabulary(relationsFile); err != nil {
			return nil, err
		}
	}
	return in, nil
}

func loadConfiguration(filename string) (*configuration.Configuration, error) {
	config := configuration.Default()
	if filename != "" {
		var err error
		if config, err = configuration.FromFile(filename); err != nil {
			return nil, fmt.Errorf("error reading configuration: %w", err)
		}
	}
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// metricsOutput collects the dataset counters of a command and writes them
// in the Prometheus text format when a file is given.
type metricsOutput struct {
	filename string
	registry *prometheus.Registry
}

func newMetricsOutput() *metricsOutput {
	return &metricsOutput{registry: prometheus.NewRegistry()}
}

func (m *metricsOutput) register(fs *flag.FlagSet) {
	fs.StringVar(&m.filename, "metrics", "", "Write dataset metrics to this file (Prometheus text format)")
}

// options returns the dataset options of config, reporting to m.
func (m *metricsOutput) options(config *configuration.Configuration) dataset.Options {
	opts := dataset.OptionsFromConfiguration(config)
	opts.Metrics = metrics.New(m.registry)
	return opts
}

func (m *metricsOutput) write() error {
	if m.filename == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(m.filename, m.registry); err != nil {
		return fmt.Errorf("error writing metrics: %w", err)
	}
	slog.Info("wrote metrics", "metrics_file", m.filename)
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func statsCmd() *commander.Command {
	var (
		in     inputFlags
		output string
	)
	m := newMetricsOutput()
	cmd := &commander.Command{
		Run: func(cmd *commander.Command, args []string) error {
			input, err := in.load()
			if err != nil {
				return err
			}
			d, err := dataset.New(input.instances, input.vocabs, input.relations, m.options(input.config))
			if err != nil {
				return err
			}
			printDataset(d, "")
			if output != "" {
				if err := relation.SaveVocabulary(output, d.RelationVocabulary()); err != nil {
					return err
				}
			}
			return m.write()
		},
		UsageLine: "stats -i <instances> [options]",
		Short:     "builds a dataset and prints its statistics",
		Long: `
builds a dataset and prints the discarded instances, the number of
batches, and the distribution and log prior of each relation.

	$ gorelex stats -i train.json [-r rel2id.json] [-w words.json] [-o rel2id.json] [-metrics stats.prom]

`,
		Flag: *flag.NewFlagSet("stats", flag.ExitOnError),
	}
	in.register(&cmd.Flag)
	m.register(&cmd.Flag)
	cmd.Flag.StringVar(&output, "o", "", "Write the relation vocabulary to this file")
	return cmd
}

func splitCmd() *commander.Command {
	var (
		in    inputFlags
		ratio float64
	)
	m := newMetricsOutput()
	cmd := &commander.Command{
		Run: func(cmd *commander.Command, args []string) error {
			input, err := in.load()
			if err != nil {
				return err
			}
			if input.relations == nil {
				return errMissingRelations
			}
			devRatio := input.config.DevRatio
			if ratio > 0 {
				devRatio = ratio
			}
			opts := m.options(input.config)
			dev, test, err := dataset.CrossValidation(input.instances, input.vocabs, input.relations, devRatio, opts)
			if err != nil {
				return err
			}
			printDataset(dev, "dev")
			printDataset(test, "test")
			return m.write()
		},
		UsageLine: "split -i <instances> -r <relations> [options]",
		Short:     "splits instances into dev and test datasets",
		Long: `
shuffles the instances and splits them into a dev and a test dataset
sharing the given relation vocabulary.

	$ gorelex split -i test.json -r rel2id.json [-ratio 0.2] [-metrics split.prom]

`,
		Flag: *flag.NewFlagSet("split", flag.ExitOnError),
	}
	in.register(&cmd.Flag)
	m.register(&cmd.Flag)
	cmd.Flag.Float64Var(&ratio, "ratio", 0, "Dev ratio (defaults to the configured dev_ratio)")
	return cmd
}

func evalCmd() *commander.Command {
	var (
		in          inputFlags
		predictions string
	)
	cmd := &commander.Command{
		Run: func(cmd *commander.Command, args []string) error {
			if predictions == "" {
				return errMissingPredicted
			}
			input, err := in.load()
			if err != nil {
				return err
			}
			if input.relations == nil {
				return errMissingRelations
			}
			predicted, err := readPredictions(predictions)
			if err != nil {
				return err
			}
			result, err := scoreInstances(input.instances, predicted, input.relations)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, result)
			return nil
		},
		UsageLine: "eval -i <instances> -p <predictions> -r <relations>",
		Short:     "scores predicted relations against gold instances",
		Long: `
scores a JSON array of predicted relations, one per instance, against
the gold relations of the instances.

	$ gorelex eval -i test.json -p predictions.json -r rel2id.json

`,
		Flag: *flag.NewFlagSet("eval", flag.ExitOnError),
	}
	in.register(&cmd.Flag)
	cmd.Flag.StringVar(&predictions, "p", "", "Predictions file")
	return cmd
}

func readPredictions(filename string) ([]string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	var predicted []string
	if err := json.Unmarshal(data, &predicted); err != nil {
		return nil, fmt.Errorf("error decoding predictions: %w", err)
	}
	return predicted, nil
}

func scoreInstances(instances []tacred.Instance, predicted []string, relations *vocabulary.Vocabulary) (eval.Result, error) {
	if len(predicted) != len(instances) {
		return eval.Result{}, fmt.Errorf("%w: %d predictions, %d instances", eval.ErrLengthMismatch, len(predicted), len(instances))
	}

	gold := make([]int, len(instances))
	guess := make([]int, len(instances))
	for i := range instances {
		var ok bool
		if gold[i], ok = relations.ID(instances[i].Relation); !ok {
			return eval.Result{}, fmt.Errorf("instance %d: unknown gold relation %q", i, instances[i].Relation)
		}
		if guess[i], ok = relations.ID(predicted[i]); !ok {
			return eval.Result{}, fmt.Errorf("instance %d: unknown predicted relation %q", i, predicted[i])
		}
	}
	return eval.Score(guess, gold, eval.UniformWeights(relations.Size()))
}

func printDataset(d *dataset.Dataset, name string) {
	if name != "" {
		fmt.Fprintf(stdout, "[%s]\n", name)
	}
	stats := d.DiscardStats()
	fmt.Fprintf(stdout, "instances: %d, discarded: %d (too long: %d, ner mismatch: %d, unknown relation: %d), batches: %d\n",
		d.Size(), d.Discarded(), stats.TooLong, stats.NERMismatch, stats.UnknownRelation, d.NumBatches())

	w := tabwriter.NewWriter(stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "id\trelation\tdistribution\tlog prior")
	relations := d.RelationVocabulary()
	for id := 0; id < relations.Size(); id++ {
		symbol, ok := relations.Symbol(id)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%.4f\t%.4f\n", id, symbol, d.Distribution()[id], d.LogPrior()[id])
	}
	w.Flush()
}
