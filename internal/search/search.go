// Package search answers questions from a pre-indexed Discovery Engine data store.
package search

import (
	"context"
	"fmt"

	discoveryengine "cloud.google.com/go/discoveryengine/apiv1"
	"cloud.google.com/go/discoveryengine/apiv1/discoveryenginepb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/proto"
)

const (
	answerModelVersion = "gemini-2.0-flash-001/answer_gen/v1"
	answerPreamble     = "Give a detailed answer."
	answerLanguage     = "en"
	userPseudoID       = "user-pseudo-id"
	maxRephraseSteps   = 1

	// FallbackAnswer is returned when the service produced no answer.
	FallbackAnswer = "Could not generate an answer for the given query from the available documents."
)

// Answerer answers a free-text query against the managed store.
type Answerer interface {
	Answer(ctx context.Context, query string) (string, error)
}

type conversationalClient interface {
	AnswerQuery(ctx context.Context, req *discoveryenginepb.AnswerQueryRequest, opts ...gax.CallOption) (*discoveryenginepb.AnswerQueryResponse, error)
}

// DiscoveryEngine implements Answerer with the AnswerQuery RPC.
type DiscoveryEngine struct {
	client        conversationalClient
	closer        func() error
	servingConfig string
}

// ServingConfig returns the default serving config of an engine.
func ServingConfig(projectID, location, engineID string) string {
	return fmt.Sprintf("projects/%s/locations/%s/collections/default_collection/engines/%s/servingConfigs/default_config",
		projectID, location, engineID)
}

// NewDiscoveryEngine builds a conversational search client. Endpoint and
// credential options are supplied by the caller.
func NewDiscoveryEngine(ctx context.Context, projectID, location, engineID string, opts ...option.ClientOption) (*DiscoveryEngine, error) {
	client, err := discoveryengine.NewConversationalSearchClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("discoveryengine new client: %w", err)
	}
	return &DiscoveryEngine{
		client:        client,
		closer:        client.Close,
		servingConfig: ServingConfig(projectID, location, engineID),
	}, nil
}

// Answer issues a single AnswerQuery call and returns the answer text.
func (d *DiscoveryEngine) Answer(ctx context.Context, query string) (string, error) {
	resp, err := d.client.AnswerQuery(ctx, buildRequest(d.servingConfig, query))
	if err != nil {
		return "", fmt.Errorf("discoveryengine answer query serving_config=%s: %w", d.servingConfig, err)
	}
	if resp == nil || resp.GetAnswer() == nil {
		return FallbackAnswer, nil
	}
	return resp.GetAnswer().GetAnswerText(), nil
}

func (d *DiscoveryEngine) Close() error {
	if d.closer == nil {
		return nil
	}
	return d.closer()
}

func buildRequest(servingConfig, query string) *discoveryenginepb.AnswerQueryRequest {
	return &discoveryenginepb.AnswerQueryRequest{
		ServingConfig: servingConfig,
		Query: &discoveryenginepb.Query{
			Content: &discoveryenginepb.Query_Text{Text: query},
		},
		QueryUnderstandingSpec: &discoveryenginepb.AnswerQueryRequest_QueryUnderstandingSpec{
			QueryRephraserSpec: &discoveryenginepb.AnswerQueryRequest_QueryUnderstandingSpec_QueryRephraserSpec{
				Disable:          false,
				MaxRephraseSteps: maxRephraseSteps,
			},
			QueryClassificationSpec: &discoveryenginepb.AnswerQueryRequest_QueryUnderstandingSpec_QueryClassificationSpec{
				Types: []discoveryenginepb.AnswerQueryRequest_QueryUnderstandingSpec_QueryClassificationSpec_Type{
					discoveryenginepb.AnswerQueryRequest_QueryUnderstandingSpec_QueryClassificationSpec_ADVERSARIAL_QUERY,
					discoveryenginepb.AnswerQueryRequest_QueryUnderstandingSpec_QueryClassificationSpec_NON_ANSWER_SEEKING_QUERY,
				},
			},
		},
		AnswerGenerationSpec: &discoveryenginepb.AnswerQueryRequest_AnswerGenerationSpec{
			ModelSpec: &discoveryenginepb.AnswerQueryRequest_AnswerGenerationSpec_ModelSpec{
				ModelVersion: answerModelVersion,
			},
			PromptSpec: &discoveryenginepb.AnswerQueryRequest_AnswerGenerationSpec_PromptSpec{
				Preamble: answerPreamble,
			},
			IncludeCitations:            true,
			AnswerLanguageCode:          answerLanguage,
			IgnoreAdversarialQuery:      false,
			IgnoreNonAnswerSeekingQuery: false,
			IgnoreLowRelevantContent:    proto.Bool(false),
		},
		UserPseudoId: userPseudoID,
	}
}

var _ Answerer = (*DiscoveryEngine)(nil)
