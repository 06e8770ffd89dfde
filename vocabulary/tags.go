// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package vocabulary

// Stanford CoreNLP NER tags found in the TACRED corpus, in id order after
// PadToken and UnkToken.
var nerTags = []string{
	"NATIONALITY", "SET", "ORDINAL", "ORGANIZATION", "MONEY", "PERCENT",
	"URL", "DURATION", "PERSON", "CITY", "CRIMINAL_CHARGE", "DATE", "TIME",
	"NUMBER", "STATE_OR_PROVINCE", "RELIGION", "MISC", "CAUSE_OF_DEATH",
	"LOCATION", "TITLE", "O", "COUNTRY", "IDEOLOGY",
}

// Penn Treebank POS tags found in the TACRED corpus, in id order after
// PadToken and UnkToken.
var posTags = []string{
	"NNP", "NN", "IN", "DT", ",", "JJ", "NNS", "VBD", "CD", "CC", ".", "RB",
	"VBN", "PRP", "TO", "VB", "VBG", "VBZ", "PRP$", ":", "POS", "''", "``",
	"-RRB-", "-LRB-", "VBP", "MD", "NNPS", "WP", "WDT", "WRB", "RP", "JJR",
	"JJS", "$", "FW", "RBR", "SYM", "EX", "RBS", "WP$", "PDT", "LS", "UH", "#",
}

// DefaultNER returns the NER tag vocabulary (25 ids).
func DefaultNER() *Vocabulary {
	return New(nerTags...)
}

// DefaultPOS returns the POS tag vocabulary (47 ids).
func DefaultPOS() *Vocabulary {
	return New(posTags...)
}
