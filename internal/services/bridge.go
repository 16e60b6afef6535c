package services

import (
	"context"

	"github.com/casperstation/operations-api-service/internal/economics"
	"github.com/casperstation/operations-api-service/internal/types"
)

// BridgeQuote is the up-front fee breakdown of a bridge transfer.
type BridgeQuote struct {
	FeeMotes uint64  `json:"fee_motes"`
	NetMotes uint64  `json:"net_motes"`
	NetCSPR  float64 `json:"net_cspr"`
}

// BridgeAccepted is the response to an accepted bridge transfer request.
type BridgeAccepted struct {
	Operation   OperationPublic `json:"operation"`
	Quote       BridgeQuote     `json:"quote"`
	TrackingUrl string          `json:"tracking_url,omitempty"`
}

// StartBridge validates and submits a cross-chain transfer and returns the
// tracked operation with its fee quote.
func (s *Services) StartBridge(
	ctx context.Context, ownerPkHex, sourceChain, destChain string, amountMotes uint64,
) (*BridgeAccepted, *types.Error) {
	doc, svcErr := s.Orchestrator.Start(ctx, ownerPkHex, types.BridgePayload{
		SourceChain: sourceChain,
		DestChain:   destChain,
		AmountMotes: amountMotes,
	})
	if svcErr != nil {
		return nil, svcErr
	}
	return &BridgeAccepted{
		Operation:   fromOperationDocument(doc),
		Quote:       s.QuoteBridgeFee(sourceChain, amountMotes),
		TrackingUrl: s.trackingUrl(doc.DeployHash),
	}, nil
}

// QuoteBridgeFee prices a transfer without submitting anything.
func (s *Services) QuoteBridgeFee(sourceChain string, amountMotes uint64) BridgeQuote {
	feeCSPR, netCSPR := s.calculator.BridgeFee(economics.MotesToCSPR(amountMotes), sourceChain)
	return BridgeQuote{
		FeeMotes: economics.CSPRToMotes(feeCSPR),
		NetMotes: economics.CSPRToMotes(netCSPR),
		NetCSPR:  netCSPR,
	}
}
