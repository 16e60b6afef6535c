package services

import (
	"context"

	"github.com/casperstation/operations-api-service/internal/economics"
	"github.com/casperstation/operations-api-service/internal/types"
)

// DeploymentEstimate is the up-front gas price of a contract deployment.
type DeploymentEstimate struct {
	CostMotes uint64  `json:"cost_motes"`
	CostCSPR  float64 `json:"cost_cspr"`
}

// DeploymentAccepted is the response to an accepted deployment request.
type DeploymentAccepted struct {
	Operation   OperationPublic    `json:"operation"`
	Estimate    DeploymentEstimate `json:"estimate"`
	TrackingUrl string             `json:"tracking_url,omitempty"`
}

// StartDeployment validates, prices and submits a contract deployment and
// returns the tracked operation with its cost estimate.
func (s *Services) StartDeployment(
	ctx context.Context, ownerPkHex, name string, codeSizeBytes uint64, sessionBytesHex string,
) (*DeploymentAccepted, *types.Error) {
	doc, svcErr := s.Orchestrator.Start(ctx, ownerPkHex, types.DeployPayload{
		Name:            name,
		CodeSizeBytes:   codeSizeBytes,
		SessionBytesHex: sessionBytesHex,
	})
	if svcErr != nil {
		return nil, svcErr
	}
	return &DeploymentAccepted{
		Operation:   fromOperationDocument(doc),
		Estimate:    s.EstimateDeploymentCost(codeSizeBytes),
		TrackingUrl: s.trackingUrl(doc.DeployHash),
	}, nil
}

// EstimateDeploymentCost prices a deployment without submitting anything.
func (s *Services) EstimateDeploymentCost(codeSizeBytes uint64) DeploymentEstimate {
	costMotes := s.calculator.EstimateDeployCost(codeSizeBytes)
	return DeploymentEstimate{
		CostMotes: costMotes,
		CostCSPR:  economics.MotesToCSPR(costMotes),
	}
}
