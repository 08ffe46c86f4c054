package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/bookingops/console/internal/domain/booking"
	"github.com/bookingops/console/internal/domain/catalog"
	"github.com/bookingops/console/internal/domain/identity"
	"github.com/bookingops/console/internal/domain/media"
	"github.com/bookingops/console/internal/domain/promotion"
	"github.com/bookingops/console/internal/domain/shared"
)

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
	Auth      string         `json:"-"`
	Header    http.Header    `json:"-"`
}

// fakeAPI answers every request with reply and records what it received
type fakeAPI struct {
	t        *testing.T
	requests []gqlRequest
	reply    func(req gqlRequest) (int, string)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req gqlRequest
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&req))
	req.Auth = r.Header.Get("Authorization")
	req.Header = r.Header.Clone()
	f.requests = append(f.requests, req)

	status, body := f.reply(req)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func newFake(t *testing.T, reply func(req gqlRequest) (int, string)) (*fakeAPI, *Client) {
	t.Helper()
	api := &fakeAPI{t: t, reply: reply}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return api, NewClient(srv.URL, WithHTTPClient(srv.Client()), WithTimeout(2*time.Second))
}

func ok(data string) func(gqlRequest) (int, string) {
	return func(gqlRequest) (int, string) { return http.StatusOK, `{"data":` + data + `}` }
}

func TestSearch(t *testing.T) {
	api, c := newFake(t, ok(`{"categorySearch":{"nodes":[{"_id":"c1","name":"Cleaning","code":"CLN"}],"pageNumber":1,"pageSize":3,"totalCount":1}}`))
	repo := NewCategoryRepository(c)

	page, err := repo.Search(WithAccessToken(context.Background(), "tok"), shared.PageRequest{GetAll: true})
	require.NoError(t, err)

	require.Len(t, page.Nodes, 1)
	assert.Equal(t, "Cleaning", page.Nodes[0].Name)
	assert.Equal(t, 1, page.TotalCount)

	require.Len(t, api.requests, 1)
	req := api.requests[0]
	assert.Contains(t, req.Query, "categorySearch(paginationInput: $paginationInput, optionInput: $optionInput)")
	assert.Equal(t, "Bearer tok", req.Auth)
	assert.Equal(t, map[string]any{"limit": float64(3), "pageNumber": float64(1)}, req.Variables["paginationInput"])
	assert.Equal(t, map[string]any{"isGetAll": true}, req.Variables["optionInput"])
}

func TestSearch_EmptyNodes(t *testing.T) {
	_, c := newFake(t, ok(`{"optionSearch":{"nodes":null,"pageNumber":1,"pageSize":3,"totalCount":0}}`))

	page, err := NewOptionRepository(c).Search(context.Background(), shared.PageRequest{})
	require.NoError(t, err)
	assert.NotNil(t, page.Nodes)
	assert.Empty(t, page.Nodes)
}

func TestFindByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		api, c := newFake(t, ok(`{"findItemById":{"_id":"i1","name":"Deep clean","price":120.5,"options":[{"_id":"o1","name":"Oven"}]}}`))

		item, err := NewItemRepository(c).FindByID(context.Background(), "i1")
		require.NoError(t, err)
		assert.Equal(t, "Deep clean", item.Name)
		assert.True(t, decimal.RequireFromString("120.5").Equal(item.Price))
		assert.Equal(t, []shared.Ref{{ID: "o1", Name: "Oven"}}, item.Options)
		assert.Equal(t, "i1", api.requests[0].Variables["id"])
	})

	t.Run("null is not found", func(t *testing.T) {
		_, c := newFake(t, ok(`{"findItemById":null}`))

		_, err := NewItemRepository(c).FindByID(context.Background(), "nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestCreateAndUpdate(t *testing.T) {
	api, c := newFake(t, func(req gqlRequest) (int, string) {
		if _, isCreate := req.Variables["id"]; !isCreate {
			return http.StatusOK, `{"data":{"createCategory":{"_id":"new-id"}}}`
		}
		return http.StatusOK, `{"data":{"updateCategoryById":{"_id":"c1"}}}`
	})
	repo := NewCategoryRepository(c)
	active := true

	id, err := repo.Create(context.Background(), catalog.CategoryInput{Code: "CLN", Name: "Cleaning", IsActive: &active})
	require.NoError(t, err)
	assert.Equal(t, "new-id", id)

	require.NoError(t, repo.Update(context.Background(), "c1", catalog.CategoryInput{Name: "Cleaning+"}))

	require.Len(t, api.requests, 2)
	assert.Contains(t, api.requests[0].Query, "$input: CategoryCreateInput!")
	assert.Equal(t, map[string]any{"code": "CLN", "name": "Cleaning", "isActive": true}, api.requests[0].Variables["input"])
	assert.Contains(t, api.requests[1].Query, "$input: CategoryUpdateInput!")
	assert.Equal(t, map[string]any{"name": "Cleaning+"}, api.requests[1].Variables["input"])
}

func TestCampaignUpdate_SendsEditableFieldsOnly(t *testing.T) {
	api, c := newFake(t, ok(`{"updateCampaignById":{"_id":"camp-1"}}`))

	err := NewCampaignRepository(c).Update(context.Background(), "camp-1", promotion.CampaignUpdateInput{
		Name: "Spring again",
		Targets: []promotion.PromotionTarget{{
			Condition: promotion.ConditionOr, Type: promotion.TargetTotal,
			PromotionType: promotion.PromotionPercent, Value: decimal.NewFromInt(7), IDs: []string{},
		}},
	})
	require.NoError(t, err)

	require.Len(t, api.requests, 1)
	assert.Contains(t, api.requests[0].Query, "updateCampaignById")
	assert.Contains(t, api.requests[0].Query, "$input: CampaignUpdateInput!")
	input, isMap := api.requests[0].Variables["input"].(map[string]any)
	require.True(t, isMap)
	assert.Equal(t, "Spring again", input["name"])
	assert.Contains(t, input, "targets")
	for _, locked := range []string{"type", "code", "redemptionAmountLimit", "startDate", "endDate"} {
		assert.NotContains(t, input, locked)
	}
}

func TestTracePropagation(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	t.Cleanup(func() { otel.SetTextMapPropagator(prev) })

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	state, err := trace.ParseTraceState("vendor=abc")
	require.NoError(t, err)
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: traceID, SpanID: spanID, TraceFlags: trace.FlagsSampled, TraceState: state, Remote: true,
	})
	member, err := baggage.NewMember("operator", "admin-1")
	require.NoError(t, err)
	bag, err := baggage.New(member)
	require.NoError(t, err)
	ctx := baggage.ContextWithBaggage(trace.ContextWithSpanContext(context.Background(), sc), bag)

	api, c := newFake(t, ok(`{"categorySearch":{"nodes":[],"pageNumber":1,"pageSize":3,"totalCount":0}}`))
	_, err = NewCategoryRepository(c).Search(ctx, shared.PageRequest{})
	require.NoError(t, err)

	require.Len(t, api.requests, 1)
	h := api.requests[0].Header
	assert.True(t, strings.HasPrefix(h.Get("traceparent"), "00-4bf92f3577b34da6a3ce929d0e0e4736-"), h.Get("traceparent"))
	assert.Equal(t, "vendor=abc", h.Get("tracestate"))
	assert.Equal(t, "operator=admin-1", h.Get("baggage"))
}

func TestDelete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		_, c := newFake(t, ok(`{"deleteWorkerById":{"success":true,"message":""}}`))
		assert.NoError(t, NewWorkerRepository(c).Delete(context.Background(), "w1"))
	})

	t.Run("rejected carries the API message", func(t *testing.T) {
		_, c := newFake(t, ok(`{"deleteWorkerById":{"success":false,"message":"worker has jobs"}}`))

		err := NewWorkerRepository(c).Delete(context.Background(), "w1")
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrUpstream)
		assert.Equal(t, "worker has jobs", err.Error())
	})
}

func TestErrorMapping(t *testing.T) {
	t.Run("graphql error", func(t *testing.T) {
		_, c := newFake(t, func(gqlRequest) (int, string) {
			return http.StatusOK, `{"errors":[{"message":"Campaign code already exists"}],"data":null}`
		})

		_, err := NewCampaignRepository(c).Search(context.Background(), shared.PageRequest{})
		require.Error(t, err)
		assert.ErrorIs(t, err, shared.ErrUpstream)
		assert.Equal(t, "Campaign code already exists", err.Error())
	})

	t.Run("bad gateway", func(t *testing.T) {
		_, c := newFake(t, func(gqlRequest) (int, string) { return http.StatusBadGateway, `<html>bad gateway</html>` })

		_, err := NewCampaignRepository(c).Search(context.Background(), shared.PageRequest{})
		assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c := NewClient(srv.URL, WithTimeout(time.Second))

		_, err := NewCampaignRepository(c).Search(context.Background(), shared.PageRequest{})
		assert.ErrorIs(t, err, shared.ErrUpstreamUnavailable)
	})
}

func TestJobRepository_PreBookingAndConfirm(t *testing.T) {
	quote := `{"appliedCampaigns":[{"code":"SPRING","refId":"camp1","type":"Code","appliedTargets":[{"name":"Deep clean","condition":"Or","promotionType":"Percent","refId":"i1","targetType":"Item","value":10}]}],
	"totalPrice":200,"finalTotalPrice":180,"totalDiscountPrice":20,"totalEstTime":90,
	"items":[{"refId":"i1","name":"Deep clean","quantity":2,"price":100,"finalPrice":90,"options":[]}]}`

	api, c := newFake(t, func(req gqlRequest) (int, string) {
		if _, isUpdate := req.Variables["id"]; isUpdate {
			return http.StatusOK, `{"data":{"updateJobItemsById":{"_id":"j1"}}}`
		}
		return http.StatusOK, `{"data":{"preBookingJob":` + quote + `}}`
	})
	repo := NewJobRepository(c)

	pb, err := repo.PreBooking(context.Background(), booking.Cart{
		Items:        []booking.CartItem{{ID: "i1", Quantity: 2, Options: []booking.CartOption{}}},
		CampaignCode: "SPRING",
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(180).Equal(pb.FinalTotalPrice))

	require.NoError(t, repo.UpdateItems(context.Background(), "j1", pb.ItemsUpdate()))

	require.Len(t, api.requests, 2)
	sent := api.requests[1].Variables["input"].(map[string]any)
	assert.Equal(t, float64(180), sent["finalTotalPrice"])
	assert.Equal(t, float64(20), sent["totalDiscountPrice"])
	assert.Equal(t, float64(200), sent["totalPrice"])
	assert.Equal(t, float64(90), sent["totalEstTime"])
	items := sent["items"].([]any)
	assert.Equal(t, float64(90), items[0].(map[string]any)["finalPrice"])
	assert.Contains(t, api.requests[1].Query, "$input: JobItemsUpdateInput!")
}

func TestJobRepository_StatusAndWorker(t *testing.T) {
	api, c := newFake(t, func(req gqlRequest) (int, string) {
		return http.StatusOK, `{"data":{"updateJobStatusById":{"_id":"j1"},"assignJobWorkerById":{"_id":"j1"}}}`
	})
	repo := NewJobRepository(c)
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.UpdateStatus(context.Background(), "j1", booking.StatusInput{Status: booking.JobConfirmed}))
	require.NoError(t, repo.UpdateStatus(context.Background(), "j1", booking.StatusInput{Status: booking.JobRescheduled, StartDate: &start}))
	require.NoError(t, repo.AssignWorker(context.Background(), "j1", booking.AssignWorkerInput{WorkerID: "w1"}))

	assert.Equal(t, map[string]any{"status": "Confirmed"}, api.requests[0].Variables["input"])
	assert.Equal(t, map[string]any{"status": "Rescheduled", "startDate": "2026-05-01T09:00:00Z"}, api.requests[1].Variables["input"])
	assert.Equal(t, map[string]any{"workerId": "w1"}, api.requests[2].Variables["input"])
}

func TestLoginGateway(t *testing.T) {
	_, c := newFake(t, func(req gqlRequest) (int, string) {
		switch {
		case strings.Contains(req.Query, "phoneLogin"):
			return http.StatusOK, `{"data":{"phoneLogin":{"success":true,"message":"sent"}}}`
		case strings.Contains(req.Query, "verifyOtpCode"):
			return http.StatusOK, `{"data":{"verifyOtpCode":{"accessToken":"a","refreshToken":"r","userInfo":{"_id":"u1","type":"Admin"}}}}`
		default:
			return http.StatusOK, `{"data":{"logout":{"success":false,"message":"unknown token"}}}`
		}
	})
	g := NewLoginGateway(c)
	ctx := context.Background()

	challenge, err := g.PhoneLogin(ctx, identity.PhoneLoginInput{PhoneNumber: "(555) 123-4567", Type: identity.UserTypeAdmin})
	require.NoError(t, err)
	assert.Equal(t, "sent", challenge.Message)

	creds, err := g.VerifyOTP(ctx, identity.VerifyOTPInput{PhoneNumber: "(555) 123-4567", Type: identity.UserTypeAdmin, Code: "1234"})
	require.NoError(t, err)
	assert.Equal(t, "u1", creds.UserInfo.ID)

	err = g.Logout(ctx, identity.LogoutInput{RefreshToken: "r"})
	assert.EqualError(t, err, "unknown token")
}

func TestGrantSource(t *testing.T) {
	api, c := newFake(t, ok(`{"uploadImage":{"url":"https://bucket.s3.amazonaws.com","cdnUrl":"https://cdn.example.com/k.png","fields":{"acl":"public-read","key":"k.png","policy":"p"}}}`))

	grant, err := NewGrantSource(c).RequestGrant(context.Background(), media.FileUploadInput{Target: "category", Type: "png"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/k.png", grant.CDNURL)
	assert.Equal(t, "k.png", grant.Fields.Key)
	assert.Equal(t, map[string]any{"target": "category", "type": "png"}, api.requests[0].Variables["input"])
}

func TestDecimalsEncodeAsNumbers(t *testing.T) {
	data, err := json.Marshal(map[string]decimal.Decimal{"price": decimal.RequireFromString("12.50")})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price":12.5}`, string(data))
}
