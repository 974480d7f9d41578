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


package diag

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rdsdata"
	"github.com/aws/aws-sdk-go-v2/service/rdsdata/types"
)

// chunkTable is the table the managed ingestion job writes chunk rows into.
const chunkTable = "bedrock_integration.bedrock_kb"

// ChunkRow is one sampled row from the vector store chunk table.
type ChunkRow struct {
	ID      string
	Length  int64
	Preview string
}

// SampleRows previews up to limit chunk rows from the vector store table.
// An empty result while the bucket has objects usually means the ingestion
// job never ran or failed.
func (i *Inspector) SampleRows(ctx context.Context, limit int) ([]ChunkRow, error) {
	if limit <= 0 {
		limit = 10
	}
	sql := fmt.Sprintf(
		"SELECT id, length(chunks) as len, left(chunks, 1000) as preview FROM %s LIMIT %d;",
		chunkTable, limit)
	return i.chunkRows(ctx, sql, nil)
}

// SearchChunks finds chunk rows whose text contains term, case-insensitive.
func (i *Inspector) SearchChunks(ctx context.Context, term string, limit int) ([]ChunkRow, error) {
	if strings.TrimSpace(term) == "" {
		return nil, ErrEmptySearchTerm
	}
	if limit <= 0 {
		limit = 50
	}
	sql := fmt.Sprintf(
		"SELECT id, length(chunks) as len, left(chunks, 2000) as preview FROM %s WHERE chunks ILIKE :pattern LIMIT %d;",
		chunkTable, limit)
	params := []types.SqlParameter{{
		Name:  aws.String("pattern"),
		Value: &types.FieldMemberStringValue{Value: "%" + term + "%"},
	}}
	return i.chunkRows(ctx, sql, params)
}

func (i *Inspector) chunkRows(ctx context.Context, sql string, params []types.SqlParameter) ([]ChunkRow, error) {
	if i.conn.ClusterARN == "" {
		return nil, ErrClusterRequired
	}
	if i.conn.SecretARN == "" {
		return nil, ErrSecretRequired
	}

	out, err := i.dataAPI.ExecuteStatement(ctx, &rdsdata.ExecuteStatementInput{
		ResourceArn: aws.String(i.conn.ClusterARN),
		SecretArn:   aws.String(i.conn.SecretARN),
		Database:    aws.String(i.conn.Database),
		Sql:         aws.String(sql),
		Parameters:  params,
	})
	if err != nil {
		return nil, err
	}

	rows := make([]ChunkRow, 0, len(out.Records))
	for _, record := range out.Records {
		if len(record) < 3 {
			continue
		}
		rows = append(rows, ChunkRow{
			ID:      fieldString(record[0]),
			Length:  fieldInt(record[1]),
			Preview: fieldString(record[2]),
		})
	}
	i.logger.Debug("sampled chunk rows", "rows", len(rows))
	return rows, nil
}

// fieldString renders an RDS Data field as text.
func fieldString(f types.Field) string {
	switch v := f.(type) {
	case *types.FieldMemberStringValue:
		return v.Value
	case *types.FieldMemberLongValue:
		return fmt.Sprintf("%d", v.Value)
	case *types.FieldMemberDoubleValue:
		return fmt.Sprintf("%g", v.Value)
	case *types.FieldMemberBooleanValue:
		return fmt.Sprintf("%t", v.Value)
	case *types.FieldMemberIsNull:
		return ""
	}
	return ""
}

// fieldInt extracts an integer from an RDS Data field.
func fieldInt(f types.Field) int64 {
	if v, ok := f.(*types.FieldMemberLongValue); ok {
		return v.Value
	}
	return 0
}
