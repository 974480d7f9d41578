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
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrock"
)

// ModelInfo describes a foundation model available in the region.
type ModelInfo struct {
	ModelID   string
	Name      string
	Provider  string
	Streaming bool
}

// ListModels lists the foundation models available in the region, filtered
// by provider name when filter is non-empty.
func (i *Inspector) ListModels(ctx context.Context, filter string) ([]ModelInfo, error) {
	out, err := i.control.ListFoundationModels(ctx, &bedrock.ListFoundationModelsInput{})
	if err != nil {
		return nil, err
	}

	filter = strings.ToLower(strings.TrimSpace(filter))
	models := make([]ModelInfo, 0, len(out.ModelSummaries))
	for _, summary := range out.ModelSummaries {
		provider := aws.ToString(summary.ProviderName)
		if filter != "" && !strings.Contains(strings.ToLower(provider), filter) {
			continue
		}
		models = append(models, ModelInfo{
			ModelID:   aws.ToString(summary.ModelId),
			Name:      aws.ToString(summary.ModelName),
			Provider:  provider,
			Streaming: aws.ToBool(summary.ResponseStreamingSupported),
		})
	}
	i.logger.Debug("listed foundation models", "models", len(models))
	return models, nil
}
