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


package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
	"github.com/mus-format/mus-go/varint"
)

// MUS serializers for the types persisted between pipeline stages.
// Timestamps are stored as Unix microseconds.

var (
	// IDMUS serializes an ID.
	IDMUS = idMUS{}
	// ChunkMUS serializes a Chunk.
	ChunkMUS = chunkMUS{}
	// QualityMetricsMUS serializes a QualityMetrics.
	QualityMetricsMUS = qualityMetricsMUS{}

	stringSliceMUS = ord.NewSliceSer[string](ord.String)
	scoreMapMUS    = ord.NewMapSer[string, float64](ord.String, raw.Float64)
)

type idMUS struct{}

func (s idMUS) Marshal(id ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(id), bs)
}

func (s idMUS) Unmarshal(bs []byte) (id ID, n int, err error) {
	v, n, err := varint.Uint64.Unmarshal(bs)
	return ID(v), n, err
}

func (s idMUS) Size(id ID) int {
	return varint.Uint64.Size(uint64(id))
}

func (s idMUS) Skip(bs []byte) (n int, err error) {
	return varint.Uint64.Skip(bs)
}

type chunkMUS struct{}

func (s chunkMUS) Marshal(c Chunk, bs []byte) (n int) {
	n = IDMUS.Marshal(c.Id, bs)
	n += IDMUS.Marshal(c.DocumentID, bs[n:])
	n += varint.Int.Marshal(c.Seq, bs[n:])
	n += ord.String.Marshal(c.Text, bs[n:])
	n += varint.Int.Marshal(c.TokenEstimate, bs[n:])
	n += varint.Int.Marshal(c.StartOffset, bs[n:])
	n += varint.Int.Marshal(c.EndOffset, bs[n:])
	n += ord.Bool.Marshal(c.OverlapsPrevious, bs[n:])
	n += stringSliceMUS.Marshal(c.Tags, bs[n:])
	n += varint.Int.Marshal(int(c.Method), bs[n:])
	n += raw.Float64.Marshal(c.Cost, bs[n:])
	n += raw.Float64.Marshal(c.QualityScore, bs[n:])
	n += varint.Int64.Marshal(c.InsertedAt.UnixMicro(), bs[n:])
	n += varint.Int64.Marshal(c.UpdatedAt.UnixMicro(), bs[n:])
	return
}

func (s chunkMUS) Unmarshal(bs []byte) (c Chunk, n int, err error) {
	var n1 int
	c.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	c.DocumentID, n1, err = IDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Seq, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Text, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.TokenEstimate, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.StartOffset, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.EndOffset, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.OverlapsPrevious, n1, err = ord.Bool.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Tags, n1, err = stringSliceMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var method int
	method, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.Method = OptimizationMethod(method)
	c.Cost, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.QualityScore, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.InsertedAt = time.UnixMicro(micros).UTC()
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	c.UpdatedAt = time.UnixMicro(micros).UTC()
	return
}

func (s chunkMUS) Size(c Chunk) (size int) {
	size = IDMUS.Size(c.Id)
	size += IDMUS.Size(c.DocumentID)
	size += varint.Int.Size(c.Seq)
	size += ord.String.Size(c.Text)
	size += varint.Int.Size(c.TokenEstimate)
	size += varint.Int.Size(c.StartOffset)
	size += varint.Int.Size(c.EndOffset)
	size += ord.Bool.Size(c.OverlapsPrevious)
	size += stringSliceMUS.Size(c.Tags)
	size += varint.Int.Size(int(c.Method))
	size += raw.Float64.Size(c.Cost)
	size += raw.Float64.Size(c.QualityScore)
	size += varint.Int64.Size(c.InsertedAt.UnixMicro())
	size += varint.Int64.Size(c.UpdatedAt.UnixMicro())
	return
}

type qualityMetricsMUS struct{}

func (s qualityMetricsMUS) Marshal(m QualityMetrics, bs []byte) (n int) {
	n = ord.String.Marshal(m.ProductID, bs)
	n += ord.String.Marshal(m.Version, bs[n:])
	n += scoreMapMUS.Marshal(m.Dimensions, bs[n:])
	n += raw.Float64.Marshal(m.TrustScore, bs[n:])
	n += varint.Int64.Marshal(m.ComputedAt.UnixMicro(), bs[n:])
	return
}

func (s qualityMetricsMUS) Unmarshal(bs []byte) (m QualityMetrics, n int, err error) {
	var n1 int
	m.ProductID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	m.Version, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.Dimensions, n1, err = scoreMapMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.TrustScore, n1, err = raw.Float64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	m.ComputedAt = time.UnixMicro(micros).UTC()
	return
}

func (s qualityMetricsMUS) Size(m QualityMetrics) (size int) {
	size = ord.String.Size(m.ProductID)
	size += ord.String.Size(m.Version)
	size += scoreMapMUS.Size(m.Dimensions)
	size += raw.Float64.Size(m.TrustScore)
	size += varint.Int64.Size(m.ComputedAt.UnixMicro())
	return
}
