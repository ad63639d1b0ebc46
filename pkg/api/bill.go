package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const BillServiceName = "billsplit.v1.BillService"

const (
	BillServiceUploadBillProcedure          = "/billsplit.v1.BillService/UploadBill"
	BillServiceGetBillProcedure             = "/billsplit.v1.BillService/GetBill"
	BillServiceEnsureSelectionProcedure     = "/billsplit.v1.BillService/EnsureSelection"
	BillServiceToggleSelectionProcedure     = "/billsplit.v1.BillService/ToggleSelection"
	BillServiceIncreaseQuantityProcedure    = "/billsplit.v1.BillService/IncreaseQuantity"
	BillServiceDecreaseQuantityProcedure    = "/billsplit.v1.BillService/DecreaseQuantity"
	BillServiceSummarizeSelectionsProcedure = "/billsplit.v1.BillService/SummarizeSelections"
	BillServiceGetSettlementProcedure       = "/billsplit.v1.BillService/GetSettlement"
	BillServiceClearBillProcedure           = "/billsplit.v1.BillService/ClearBill"
)

// BillServiceHandler covers a group's bill from upload to settlement.
type BillServiceHandler interface {
	UploadBill(context.Context, *connect.Request[UploadBillRequest]) (*connect.Response[UploadBillResponse], error)
	GetBill(context.Context, *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error)
	EnsureSelection(context.Context, *connect.Request[SelectionRequest]) (*connect.Response[SelectionResponse], error)
	ToggleSelection(context.Context, *connect.Request[ToggleSelectionRequest]) (*connect.Response[SelectionResponse], error)
	IncreaseQuantity(context.Context, *connect.Request[SelectionRequest]) (*connect.Response[SelectionResponse], error)
	DecreaseQuantity(context.Context, *connect.Request[SelectionRequest]) (*connect.Response[SelectionResponse], error)
	SummarizeSelections(context.Context, *connect.Request[SummarizeSelectionsRequest]) (*connect.Response[SummarizeSelectionsResponse], error)
	GetSettlement(context.Context, *connect.Request[GetSettlementRequest]) (*connect.Response[GetSettlementResponse], error)
	ClearBill(context.Context, *connect.Request[ClearBillRequest]) (*connect.Response[ClearBillResponse], error)
}

func NewBillServiceHandler(svc BillServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		BillServiceUploadBillProcedure:          connect.NewUnaryHandler(BillServiceUploadBillProcedure, svc.UploadBill, opts...),
		BillServiceGetBillProcedure:             connect.NewUnaryHandler(BillServiceGetBillProcedure, svc.GetBill, opts...),
		BillServiceEnsureSelectionProcedure:     connect.NewUnaryHandler(BillServiceEnsureSelectionProcedure, svc.EnsureSelection, opts...),
		BillServiceToggleSelectionProcedure:     connect.NewUnaryHandler(BillServiceToggleSelectionProcedure, svc.ToggleSelection, opts...),
		BillServiceIncreaseQuantityProcedure:    connect.NewUnaryHandler(BillServiceIncreaseQuantityProcedure, svc.IncreaseQuantity, opts...),
		BillServiceDecreaseQuantityProcedure:    connect.NewUnaryHandler(BillServiceDecreaseQuantityProcedure, svc.DecreaseQuantity, opts...),
		BillServiceSummarizeSelectionsProcedure: connect.NewUnaryHandler(BillServiceSummarizeSelectionsProcedure, svc.SummarizeSelections, opts...),
		BillServiceGetSettlementProcedure:       connect.NewUnaryHandler(BillServiceGetSettlementProcedure, svc.GetSettlement, opts...),
		BillServiceClearBillProcedure:           connect.NewUnaryHandler(BillServiceClearBillProcedure, svc.ClearBill, opts...),
	}
	return "/" + BillServiceName + "/", route(routes)
}

type BillServiceClient struct {
	uploadBill          *connect.Client[UploadBillRequest, UploadBillResponse]
	getBill             *connect.Client[GetBillRequest, GetBillResponse]
	ensureSelection     *connect.Client[SelectionRequest, SelectionResponse]
	toggleSelection     *connect.Client[ToggleSelectionRequest, SelectionResponse]
	increaseQuantity    *connect.Client[SelectionRequest, SelectionResponse]
	decreaseQuantity    *connect.Client[SelectionRequest, SelectionResponse]
	summarizeSelections *connect.Client[SummarizeSelectionsRequest, SummarizeSelectionsResponse]
	getSettlement       *connect.Client[GetSettlementRequest, GetSettlementResponse]
	clearBill           *connect.Client[ClearBillRequest, ClearBillResponse]
}

func NewBillServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *BillServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &BillServiceClient{
		uploadBill:          connect.NewClient[UploadBillRequest, UploadBillResponse](httpClient, baseURL+BillServiceUploadBillProcedure, opts...),
		getBill:             connect.NewClient[GetBillRequest, GetBillResponse](httpClient, baseURL+BillServiceGetBillProcedure, opts...),
		ensureSelection:     connect.NewClient[SelectionRequest, SelectionResponse](httpClient, baseURL+BillServiceEnsureSelectionProcedure, opts...),
		toggleSelection:     connect.NewClient[ToggleSelectionRequest, SelectionResponse](httpClient, baseURL+BillServiceToggleSelectionProcedure, opts...),
		increaseQuantity:    connect.NewClient[SelectionRequest, SelectionResponse](httpClient, baseURL+BillServiceIncreaseQuantityProcedure, opts...),
		decreaseQuantity:    connect.NewClient[SelectionRequest, SelectionResponse](httpClient, baseURL+BillServiceDecreaseQuantityProcedure, opts...),
		summarizeSelections: connect.NewClient[SummarizeSelectionsRequest, SummarizeSelectionsResponse](httpClient, baseURL+BillServiceSummarizeSelectionsProcedure, opts...),
		getSettlement:       connect.NewClient[GetSettlementRequest, GetSettlementResponse](httpClient, baseURL+BillServiceGetSettlementProcedure, opts...),
		clearBill:           connect.NewClient[ClearBillRequest, ClearBillResponse](httpClient, baseURL+BillServiceClearBillProcedure, opts...),
	}
}

func (c *BillServiceClient) UploadBill(ctx context.Context, req *connect.Request[UploadBillRequest]) (*connect.Response[UploadBillResponse], error) {
	return c.uploadBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) GetBill(ctx context.Context, req *connect.Request[GetBillRequest]) (*connect.Response[GetBillResponse], error) {
	return c.getBill.CallUnary(ctx, req)
}

func (c *BillServiceClient) EnsureSelection(ctx context.Context, req *connect.Request[SelectionRequest]) (*connect.Response[SelectionResponse], error) {
	return c.ensureSelection.CallUnary(ctx, req)
}

func (c *BillServiceClient) ToggleSelection(ctx context.Context, req *connect.Request[ToggleSelectionRequest]) (*connect.Response[SelectionResponse], error) {
	return c.toggleSelection.CallUnary(ctx, req)
}

func (c *BillServiceClient) IncreaseQuantity(ctx context.Context, req *connect.Request[SelectionRequest]) (*connect.Response[SelectionResponse], error) {
	return c.increaseQuantity.CallUnary(ctx, req)
}

func (c *BillServiceClient) DecreaseQuantity(ctx context.Context, req *connect.Request[SelectionRequest]) (*connect.Response[SelectionResponse], error) {
	return c.decreaseQuantity.CallUnary(ctx, req)
}

func (c *BillServiceClient) SummarizeSelections(ctx context.Context, req *connect.Request[SummarizeSelectionsRequest]) (*connect.Response[SummarizeSelectionsResponse], error) {
	return c.summarizeSelections.CallUnary(ctx, req)
}

func (c *BillServiceClient) GetSettlement(ctx context.Context, req *connect.Request[GetSettlementRequest]) (*connect.Response[GetSettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}

func (c *BillServiceClient) ClearBill(ctx context.Context, req *connect.Request[ClearBillRequest]) (*connect.Response[ClearBillResponse], error) {
	return c.clearBill.CallUnary(ctx, req)
}
