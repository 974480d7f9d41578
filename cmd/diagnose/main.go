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


// diagnose walks the usual knowledge-base triage path: raw retrieve, bucket
// contents, vector store rows, optional chunk text search. Connection
// locators come from GROUNDIT_* environment variables; the first argument is
// the probe query, the second an optional chunk search term.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/poiesic/groundit/core"
	"github.com/poiesic/groundit/diag"
	kbbedrock "github.com/poiesic/groundit/kb/bedrock"
)

func init() {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})
	slog.SetDefault(slog.New(handler))
}

func main() {
	conn := core.ConnectionContext{
		ClusterARN:      os.Getenv("GROUNDIT_CLUSTER_ARN"),
		SecretARN:       os.Getenv("GROUNDIT_SECRET_ARN"),
		Bucket:          os.Getenv("GROUNDIT_BUCKET"),
		KnowledgeBaseID: os.Getenv("GROUNDIT_KNOWLEDGE_BASE"),
		DataSourceID:    os.Getenv("GROUNDIT_DATA_SOURCE"),
		Database:        os.Getenv("GROUNDIT_DATABASE"),
		ModelID:         os.Getenv("GROUNDIT_MODEL"),
		Region:          os.Getenv("GROUNDIT_REGION"),
	}

	query := "test"
	if len(os.Args) > 1 {
		query = os.Args[1]
	}

	ctx := context.Background()
	retriever, err := kbbedrock.NewClient(ctx, conn)
	if err != nil {
		panic(err)
	}
	inspector, err := diag.NewInspector(ctx, conn, diag.WithRetriever(retriever))
	if err != nil {
		panic(err)
	}

	fmt.Printf("== raw retrieve (%q) ==\n", query)
	results, rendered, err := inspector.DumpRetrieve(ctx, query, 5)
	if err != nil {
		fmt.Printf("retrieve failed: %v\n", err)
	} else {
		fmt.Printf("%d result(s)\n%s\n", len(results), rendered)
	}

	fmt.Println("== bucket contents ==")
	objects, err := inspector.ListObjects(ctx)
	if err != nil {
		fmt.Printf("listing failed: %v\n", err)
	} else {
		for _, obj := range objects {
			fmt.Printf("%10d  %s  %s\n", obj.Size, obj.LastModified.Format("2006-01-02 15:04"), obj.Key)
		}
		fmt.Printf("%d object(s)\n", len(objects))
	}

	fmt.Println("== vector store rows ==")
	rows, err := inspector.SampleRows(ctx, 10)
	if err != nil {
		fmt.Printf("row sampling failed: %v\n", err)
	} else {
		for _, row := range rows {
			fmt.Printf("%s (%d chars): %.120s\n", row.ID, row.Length, row.Preview)
		}
		fmt.Printf("%d row(s)\n", len(rows))
	}

	if len(os.Args) > 2 {
		term := os.Args[2]
		fmt.Printf("== chunk search (%q) ==\n", term)
		hits, err := inspector.SearchChunks(ctx, term, 50)
		if err != nil {
			fmt.Printf("chunk search failed: %v\n", err)
		} else {
			for _, hit := range hits {
				fmt.Printf("%s (%d chars): %.120s\n", hit.ID, hit.Length, hit.Preview)
			}
			fmt.Printf("%d hit(s)\n", len(hits))
		}
	}
}
