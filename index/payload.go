// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package index

import (
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/kbforge/core"
)

// Metadata keys of the vector-store payload. Query-time filtering addresses
// points by these names, so they are part of the external contract.
const (
	KeyCreatedAt    = "created_at"
	KeyCollectionID = "collection_id"
	KeyVersion      = "version"
	KeySourceFile   = "source_file"
	KeyPageNumber   = "page_number"
	KeyDocumentID   = "document_id"
	KeyFieldName    = "field_name"
	KeyTags         = "tags"
	KeyScore        = "score"
	KeyText         = "text"
	KeyTextLength   = "text_length"
	KeySource       = "source"
	KeyAudience     = "audience"
	KeyTimestamp    = "timestamp"
	KeyProductID    = "product_id"
	KeyIndexScope   = "index_scope"
	KeyDocScope     = "doc_scope"
	KeyFieldScope   = "field_scope"
	KeyTokenEst     = "token_est"
)

// Scope values for the access-control fields.
const (
	ScopePublic   = "public"
	ScopeInternal = "internal"
	ScopePrivate  = "private"
)

// Payload is the run-level portion of a point's metadata: fields shared by
// every chunk of one document in one pipeline run. Per-chunk fields (text,
// tags, offsets, token estimate) come from the chunk itself.
type Payload struct {
	CollectionID string
	ProductID    string
	Version      string
	SourceFile   string
	Source       string
	PageNumber   int
	FieldName    string
	Audience     string
	TrustScore   float64

	// Access-control scopes applied at query time.
	IndexScope string
	DocScope   string
	FieldScope string
}

// metadata builds the full payload map for one chunk. The vector store keeps
// string values only, so numeric fields are formatted here and parsed back
// by the query layer.
func (p *Payload) metadata(chunk core.Chunk, now time.Time) map[string]string {
	return map[string]string{
		KeyCreatedAt:    now.Format(time.RFC3339),
		KeyCollectionID: p.CollectionID,
		KeyVersion:      p.Version,
		KeySourceFile:   p.SourceFile,
		KeyPageNumber:   strconv.Itoa(p.PageNumber),
		KeyDocumentID:   strconv.FormatUint(uint64(chunk.DocumentID), 10),
		KeyFieldName:    p.FieldName,
		KeyTags:         strings.Join(chunk.Tags, ","),
		KeyScore:        strconv.FormatFloat(p.TrustScore, 'f', 2, 64),
		KeyText:         chunk.Text,
		KeyTextLength:   strconv.Itoa(len(chunk.Text)),
		KeySource:       p.Source,
		KeyAudience:     p.Audience,
		KeyTimestamp:    strconv.FormatInt(now.Unix(), 10),
		KeyProductID:    p.ProductID,
		KeyIndexScope:   p.IndexScope,
		KeyDocScope:     p.DocScope,
		KeyFieldScope:   p.FieldScope,
		KeyTokenEst:     strconv.Itoa(chunk.TokenEstimate),
	}
}
