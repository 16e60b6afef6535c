package services

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/casperstation/operations-api-service/internal/db"
	"github.com/casperstation/operations-api-service/internal/db/model"
	"github.com/casperstation/operations-api-service/internal/economics"
	"github.com/casperstation/operations-api-service/internal/types"
)

// OperationPublic is the presentation shape of an operation. Amounts are
// reported both in motes (exact) and CSPR (display).
type OperationPublic struct {
	Id           string               `json:"id"`
	Kind         string               `json:"kind"`
	State        string               `json:"state"`
	OwnerPkHex   string               `json:"owner_pk_hex"`
	DeployHash   string               `json:"deploy_hash,omitempty"`
	Attempts     uint64               `json:"attempts"`
	CreatedAt    time.Time            `json:"created_at"`
	LastPolledAt *time.Time           `json:"last_polled_at,omitempty"`
	TerminalAt   *time.Time           `json:"terminal_at,omitempty"`
	Deploy       *DeployDetailsPublic `json:"deploy,omitempty"`
	Stake        *StakeDetailsPublic  `json:"stake,omitempty"`
	Bridge       *BridgeDetailsPublic `json:"bridge,omitempty"`
	DeployResult *DeployResultPublic  `json:"deploy_result,omitempty"`
	StakeResult  *StakeResultPublic   `json:"stake_result,omitempty"`
	BridgeResult *BridgeResultPublic  `json:"bridge_result,omitempty"`
	ErrorCode    string               `json:"error_code,omitempty"`
	ErrorMessage string               `json:"error_message,omitempty"`
}

type DeployDetailsPublic struct {
	Name          string `json:"name"`
	CodeSizeBytes uint64 `json:"code_size_bytes"`
}

type StakeDetailsPublic struct {
	ValidatorPkHex string    `json:"validator_pk_hex"`
	AmountMotes    uint64    `json:"amount_motes"`
	AmountCSPR     float64   `json:"amount_cspr"`
	LockDays       uint64    `json:"lock_days"`
	EndDate        time.Time `json:"end_date"`
}

type BridgeDetailsPublic struct {
	SourceChain string  `json:"source_chain"`
	DestChain   string  `json:"dest_chain"`
	AmountMotes uint64  `json:"amount_motes"`
	AmountCSPR  float64 `json:"amount_cspr"`
}

type DeployResultPublic struct {
	BlockHash string  `json:"block_hash"`
	CostMotes uint64  `json:"cost_motes"`
	CostCSPR  float64 `json:"cost_cspr"`
}

type StakeResultPublic struct {
	RewardsMotes uint64  `json:"rewards_motes"`
	RewardsCSPR  float64 `json:"rewards_cspr"`
	ElapsedDays  uint64  `json:"elapsed_days"`
}

type BridgeResultPublic struct {
	DestTxHash string  `json:"dest_tx_hash"`
	FeeMotes   uint64  `json:"fee_motes"`
	NetMotes   uint64  `json:"net_motes"`
	NetCSPR    float64 `json:"net_cspr"`
}

func fromOperationDocument(doc *model.OperationDocument) OperationPublic {
	public := OperationPublic{
		Id:           doc.Id,
		Kind:         doc.Kind.ToString(),
		State:        doc.State.ToString(),
		OwnerPkHex:   doc.OwnerPkHex,
		DeployHash:   doc.DeployHash,
		Attempts:     doc.Attempts,
		CreatedAt:    doc.CreatedAt,
		LastPolledAt: doc.LastPolledAt,
		TerminalAt:   doc.TerminalAt,
		ErrorCode:    doc.ErrorCode,
		ErrorMessage: doc.ErrorMessage,
	}

	if doc.Deploy != nil {
		public.Deploy = &DeployDetailsPublic{
			Name:          doc.Deploy.Name,
			CodeSizeBytes: doc.Deploy.CodeSizeBytes,
		}
	}
	if doc.Stake != nil {
		public.Stake = &StakeDetailsPublic{
			ValidatorPkHex: doc.Stake.ValidatorPkHex,
			AmountMotes:    doc.Stake.AmountMotes,
			AmountCSPR:     economics.MotesToCSPR(doc.Stake.AmountMotes),
			LockDays:       doc.Stake.LockDays,
			EndDate:        doc.Stake.EndDate,
		}
	}
	if doc.Bridge != nil {
		public.Bridge = &BridgeDetailsPublic{
			SourceChain: doc.Bridge.SourceChain,
			DestChain:   doc.Bridge.DestChain,
			AmountMotes: doc.Bridge.AmountMotes,
			AmountCSPR:  economics.MotesToCSPR(doc.Bridge.AmountMotes),
		}
	}

	if doc.DeployResult != nil {
		public.DeployResult = &DeployResultPublic{
			BlockHash: doc.DeployResult.BlockHash,
			CostMotes: doc.DeployResult.CostMotes,
			CostCSPR:  economics.MotesToCSPR(doc.DeployResult.CostMotes),
		}
	}
	if doc.StakeResult != nil {
		public.StakeResult = &StakeResultPublic{
			RewardsMotes: doc.StakeResult.RewardsMotes,
			RewardsCSPR:  economics.MotesToCSPR(doc.StakeResult.RewardsMotes),
			ElapsedDays:  doc.StakeResult.ElapsedDays,
		}
	}
	if doc.BridgeResult != nil {
		public.BridgeResult = &BridgeResultPublic{
			DestTxHash: doc.BridgeResult.DestTxHash,
			FeeMotes:   doc.BridgeResult.FeeMotes,
			NetMotes:   doc.BridgeResult.NetMotes,
			NetCSPR:    economics.MotesToCSPR(doc.BridgeResult.NetMotes),
		}
	}
	return public
}

// GetOperationStatus returns the current snapshot of an operation by id.
func (s *Services) GetOperationStatus(ctx context.Context, id string) (*OperationPublic, *types.Error) {
	doc, svcErr := s.Orchestrator.GetOperation(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}
	public := fromOperationDocument(doc)
	return &public, nil
}

// parseOperationFilter maps the optional kind and state query values into a
// ledger filter, rejecting values outside the known sets.
func parseOperationFilter(kind, state string) (*db.OperationFilter, *types.Error) {
	var filter db.OperationFilter
	if kind != "" {
		parsedKind, err := types.FromStringToOperationKind(kind)
		if err != nil {
			return nil, types.NewError(http.StatusBadRequest, types.BadRequest, err)
		}
		filter.Kind = &parsedKind
	}
	if state != "" {
		parsedState, err := types.FromStringToOperationState(state)
		if err != nil {
			return nil, types.NewError(http.StatusBadRequest, types.BadRequest, err)
		}
		filter.State = &parsedState
	}
	return &filter, nil
}

// OperationsByOwner lists the operations of an owner public key, newest
// first, optionally narrowed by kind and state.
func (s *Services) OperationsByOwner(
	ctx context.Context, ownerPkHex, paginationKey, kind, state string,
) ([]OperationPublic, string, *types.Error) {
	filter, filterErr := parseOperationFilter(kind, state)
	if filterErr != nil {
		return nil, "", filterErr
	}

	resultMap, err := s.DbClient.FindOperationsByOwner(ctx, ownerPkHex, paginationKey, filter)
	if err != nil {
		if db.IsInvalidPaginationTokenError(err) {
			log.Ctx(ctx).Warn().Err(err).Msg("invalid pagination token while fetching operations by owner")
			return nil, "", types.NewError(http.StatusBadRequest, types.BadRequest, err)
		}
		log.Ctx(ctx).Error().Err(err).Str("ownerPk", ownerPkHex).Msg("error while fetching operations by owner")
		return nil, "", types.NewInternalServiceError(err)
	}

	operations := make([]OperationPublic, 0, len(resultMap.Data))
	for i := range resultMap.Data {
		operations = append(operations, fromOperationDocument(&resultMap.Data[i]))
	}
	return operations, resultMap.PaginationToken, nil
}

// CancelOperation force-fails a non-terminal operation on behalf of its owner.
func (s *Services) CancelOperation(ctx context.Context, id string) *types.Error {
	return s.Orchestrator.Cancel(ctx, id)
}
