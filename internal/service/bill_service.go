package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/billsplit/internal/calculator"
	"github.com/mmynk/billsplit/internal/extraction"
	"github.com/mmynk/billsplit/internal/metrics"
	"github.com/mmynk/billsplit/internal/middleware"
	"github.com/mmynk/billsplit/internal/models"
	"github.com/mmynk/billsplit/internal/selection"
	"github.com/mmynk/billsplit/internal/settlement"
	"github.com/mmynk/billsplit/internal/storage"
	"github.com/mmynk/billsplit/pkg/api"
)

// BillService implements api.BillServiceHandler: uploading a receipt,
// claiming items and settling up.
type BillService struct {
	store     storage.Store
	extractor extraction.Extractor
}

var _ api.BillServiceHandler = (*BillService)(nil)

// NewBillService creates a BillService.
func NewBillService(store storage.Store, extractor extraction.Extractor) *BillService {
	return &BillService{store: store, extractor: extractor}
}

// UploadBill extracts items and taxes from a receipt image and stores them
// as the group's bill. Refused while the group already has items.
func (s *BillService) UploadBill(ctx context.Context, req *connect.Request[api.UploadBillRequest]) (*connect.Response[api.UploadBillResponse], error) {
	userID := middleware.GetUserID(ctx)
	groupID := req.Msg.GroupID
	slog.Info("UploadBill request received", "group_id", groupID, "user_id", userID, "image_bytes", len(req.Msg.Image))

	group, err := memberGroup(ctx, s.store, groupID)
	if err != nil {
		return nil, err
	}

	if _, err := extraction.DetectImageType(req.Msg.Image); err != nil {
		return nil, toConnectError(err)
	}

	// Extraction is slow and billed, so check for an active bill first.
	if _, err := s.store.LoadBill(ctx, groupID); err == nil {
		return nil, toConnectError(fmt.Errorf("group %s: %w", groupID, storage.ErrBillExists))
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, toConnectError(err)
	}

	start := time.Now()
	result, err := s.extractor.Extract(ctx, req.Msg.Image)
	metrics.ExtractionDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.Extractions.WithLabelValues(metrics.OutcomeFailure).Inc()
		slog.Error("Extraction failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}
	metrics.Extractions.WithLabelValues(metrics.OutcomeSuccess).Inc()

	if _, err := s.store.SaveBill(ctx, groupID, userID, result.Items, result.Taxes); err != nil {
		slog.Error("SaveBill failed", "group_id", groupID, "error", err)
		return nil, toConnectError(err)
	}

	bill, err := s.store.UpdateSelections(ctx, groupID, func(b *models.Bill) error {
		return selection.EnsureAll(b, userID)
	})
	if err != nil {
		return nil, toConnectError(err)
	}

	slog.Info("Bill uploaded", "group_id", groupID, "items", len(bill.Items), "taxes", len(bill.Taxes), "dropped", len(result.Dropped))
	return connect.NewResponse(&api.UploadBillResponse{
		Bill:    billToAPI(groupID, bill, userID, group.Members),
		Dropped: result.Dropped,
	}), nil
}

// GetBill returns the group's bill with the caller's selections, creating
// unselected entries for any item the caller has not seen yet. A group
// without a bill is reported in the empty state.
func (s *BillService) GetBill(ctx context.Context, req *connect.Request[api.GetBillRequest]) (*connect.Response[api.GetBillResponse], error) {
	userID := middleware.GetUserID(ctx)
	groupID := req.Msg.GroupID

	group, err := memberGroup(ctx, s.store, groupID)
	if err != nil {
		return nil, err
	}

	bill, err := s.store.LoadBill(ctx, groupID)
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewResponse(&api.GetBillResponse{Bill: billToAPI(groupID, &models.Bill{}, userID, nil)}), nil
	}
	if err != nil {
		return nil, toConnectError(err)
	}

	if missingSelections(bill, userID) {
		bill, err = s.store.UpdateSelections(ctx, groupID, func(b *models.Bill) error {
			return selection.EnsureAll(b, userID)
		})
		if err != nil {
			return nil, toConnectError(err)
		}
	}

	return connect.NewResponse(&api.GetBillResponse{Bill: billToAPI(groupID, bill, userID, group.Members)}), nil
}

func missingSelections(bill *models.Bill, memberID string) bool {
	for _, item := range bill.Items {
		if _, ok := bill.Selections.Get(memberID, item.Index); !ok {
			return true
		}
	}
	return false
}

type selectionOp func(bill *models.Bill, memberID string, key models.ItemKey) (models.Selection, error)

// mutate applies op to the caller's selection in a single storage
// transaction. Rejected operations leave the stored bill untouched.
func (s *BillService) mutate(ctx context.Context, op string, groupID string, index int, apply selectionOp) (*connect.Response[api.SelectionResponse], error) {
	userID := middleware.GetUserID(ctx)
	key := models.ItemKey(index)
	attrs := []any{"op", op, "group_id", groupID, "member_id", userID, "item_index", index}
	slog.Info("Selection request received", attrs...)

	if _, err := memberGroup(ctx, s.store, groupID); err != nil {
		return nil, err
	}

	var sel models.Selection
	bill, err := s.store.UpdateSelections(ctx, groupID, func(b *models.Bill) error {
		var err error
		sel, err = apply(b, userID, key)
		return err
	})
	if err != nil {
		recordRejection(err, attrs...)
		if rejectionReason(err) == "" {
			slog.Error("Selection update failed", append(attrs, "error", err)...)
		}
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&api.SelectionResponse{
		Selection: selectionToAPI(key, sel),
		Version:   bill.Version,
	}), nil
}

func (s *BillService) EnsureSelection(ctx context.Context, req *connect.Request[api.SelectionRequest]) (*connect.Response[api.SelectionResponse], error) {
	return s.mutate(ctx, "ensure", req.Msg.GroupID, req.Msg.ItemIndex, selection.Ensure)
}

func (s *BillService) ToggleSelection(ctx context.Context, req *connect.Request[api.ToggleSelectionRequest]) (*connect.Response[api.SelectionResponse], error) {
	selected := req.Msg.Selected
	return s.mutate(ctx, "toggle", req.Msg.GroupID, req.Msg.ItemIndex,
		func(b *models.Bill, memberID string, key models.ItemKey) (models.Selection, error) {
			return selection.Toggle(b, memberID, key, selected)
		})
}

func (s *BillService) IncreaseQuantity(ctx context.Context, req *connect.Request[api.SelectionRequest]) (*connect.Response[api.SelectionResponse], error) {
	return s.mutate(ctx, "increase", req.Msg.GroupID, req.Msg.ItemIndex, selection.Increase)
}

func (s *BillService) DecreaseQuantity(ctx context.Context, req *connect.Request[api.SelectionRequest]) (*connect.Response[api.SelectionResponse], error) {
	return s.mutate(ctx, "decrease", req.Msg.GroupID, req.Msg.ItemIndex, selection.Decrease)
}

// SummarizeSelections lists what every member has claimed, in member order.
func (s *BillService) SummarizeSelections(ctx context.Context, req *connect.Request[api.SummarizeSelectionsRequest]) (*connect.Response[api.SummarizeSelectionsResponse], error) {
	group, bill, err := s.loadForMember(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	summary := settlement.SummarizeSelections(group.Members, bill.Items, bill.Selections)
	out := make([]api.MemberSummary, len(group.Members))
	for i, m := range group.Members {
		out[i] = api.MemberSummary{
			MemberID:    m.ID,
			DisplayName: m.DisplayName,
			Lines:       summary[m.ID],
		}
	}
	return connect.NewResponse(&api.SummarizeSelectionsResponse{Members: out}), nil
}

// GetSettlement tells the caller what they owe and whom to pay, or, for the
// uploader, what everyone owes them.
func (s *BillService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	userID := middleware.GetUserID(ctx)
	group, bill, err := s.loadForMember(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}

	alloc := calculator.Allocate(bill.Items, bill.Taxes, bill.Selections, models.MemberIDs(group.Members))
	metrics.Allocations.Inc()
	if len(alloc.Unclaimed) > 0 {
		slog.Warn("Bill has unclaimed items", "group_id", group.ID, "count", len(alloc.Unclaimed),
			"cost", alloc.UnclaimedCost().StringFixed(2))
	}

	view, err := settlement.Build(bill.UploaderID, group.Members, alloc).ForViewer(userID)
	if err != nil {
		return nil, toConnectError(err)
	}

	resp := &api.GetSettlementResponse{
		TotalTax:     alloc.TotalTax.Round(2),
		TaxPerPerson: alloc.TaxPerPerson.Round(2),
	}
	if view.Payer != nil {
		resp.Payer = &api.PayerView{
			AmountOwed:   view.Payer.AmountOwed.Round(2),
			Display:      settlement.FormatAmount(view.Payer.AmountOwed),
			TaxShare:     view.Payer.TaxShare.Round(2),
			Lines:        view.Payer.Lines(),
			PayToID:      view.Payer.PayToID,
			PayToName:    view.Payer.PayToName,
			PayToAddress: view.Payer.PayToAddress,
			PaymentLink:  view.Payer.PaymentLink,
			Warning:      view.Payer.Warning,
		}
	}
	if view.Collector != nil {
		collector := &api.CollectorView{
			Owed:         []api.MemberOwed{},
			Total:        view.Collector.Total().Round(2),
			TotalDisplay: settlement.FormatAmount(view.Collector.Total()),
		}
		for _, m := range view.Collector.PerMemberOwed {
			collector.Owed = append(collector.Owed, api.MemberOwed{
				MemberID:    m.MemberID,
				DisplayName: m.Name,
				Amount:      m.Amount.Round(2),
				Display:     settlement.FormatAmount(m.Amount),
			})
		}
		resp.Collector = collector
	}

	return connect.NewResponse(resp), nil
}

// ClearBill removes the group's bill so a new receipt can be uploaded.
func (s *BillService) ClearBill(ctx context.Context, req *connect.Request[api.ClearBillRequest]) (*connect.Response[api.ClearBillResponse], error) {
	userID := middleware.GetUserID(ctx)
	slog.Info("ClearBill request received", "group_id", req.Msg.GroupID, "user_id", userID)

	group, bill, err := s.loadForMember(ctx, req.Msg.GroupID)
	if err != nil {
		return nil, err
	}
	if userID != bill.UploaderID && userID != group.OwnerID {
		return nil, toConnectError(errCannotClear)
	}

	if err := s.store.ClearBill(ctx, group.ID); err != nil {
		slog.Error("ClearBill failed", "group_id", group.ID, "error", err)
		return nil, toConnectError(err)
	}

	slog.Info("Bill cleared", "group_id", group.ID)
	return connect.NewResponse(&api.ClearBillResponse{}), nil
}

// loadForMember returns the caller's group and its active bill.
func (s *BillService) loadForMember(ctx context.Context, groupID string) (*models.Group, *models.Bill, error) {
	group, err := memberGroup(ctx, s.store, groupID)
	if err != nil {
		return nil, nil, err
	}
	bill, err := s.store.LoadBill(ctx, groupID)
	if err != nil {
		return nil, nil, toConnectError(err)
	}
	return group, bill, nil
}
