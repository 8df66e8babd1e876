package supply

import (
	"context"
	"errors"
	"math/big"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/status-im/token-supply/mirror"
	mock_mirror "github.com/status-im/token-supply/mirror/mocks"
)

const (
	testSource    = "mirror.test"
	testToken     = "0.0.100"
	testTimestamp = "1700000000.000000005"
)

var testNow = time.Unix(1700000000, 5)

func fixedClock() time.Time { return testNow }

func infoPath() string {
	return "/api/v1/tokens/0.0.100?timestamp=" + testTimestamp
}

func firstBalancesPath() string {
	return "/api/v1/tokens/0.0.100/balances?timestamp=" + testTimestamp
}

func newTestAggregator(client mirror.IClient, opts ...Option) *Aggregator {
	return NewAggregator(client, append([]Option{WithClock(fixedClock)}, opts...)...)
}

func TestAggregate_SinglePage(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_mirror.NewMockIClient(ctrl)

	gomock.InOrder(
		client.EXPECT().Fetch(gomock.Any(), testSource, infoPath()).
			Return(http.StatusOK, []byte(`{"token_id":"0.0.100","total_supply":"1000000","decimals":"2"}`), nil),
		client.EXPECT().Fetch(gomock.Any(), testSource, firstBalancesPath()).
			Return(http.StatusOK, []byte(`{"balances":[{"account":"0.0.1","balance":400000},{"account":"0.0.2","balance":600000}],"links":{"next":null}}`), nil),
	)

	result, err := newTestAggregator(client).Aggregate(context.Background(), testSource, testToken, []string{"0.0.2"})
	require.NoError(t, err)

	assert.Equal(t, testToken, result.Token)
	assert.Equal(t, testSource, result.Source)
	assert.Equal(t, testTimestamp, result.Timestamp)
	assert.Equal(t, 2, result.Decimals)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, "1000000", result.TotalSupply.String())
	assert.Equal(t, "400000", result.Circulating.String())
	assert.Equal(t, "600000", result.NonCirculating.String())

	assert.Equal(t, []string{"0.0.2"}, result.TreasuryBalances.Accounts())
	assert.Equal(t, "600000", amountOf(t, result.TreasuryBalances, "0.0.2"))
	assert.Equal(t, []string{"0.0.1"}, result.ConsumerBalances.Accounts())
	assert.Equal(t, "400000", amountOf(t, result.ConsumerBalances, "0.0.1"))
}

func TestAggregate_TreasuryWithoutBalance(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_mirror.NewMockIClient(ctrl)

	client.EXPECT().Fetch(gomock.Any(), testSource, infoPath()).
		Return(http.StatusOK, []byte(`{"total_supply":1000}`), nil)
	client.EXPECT().Fetch(gomock.Any(), testSource, firstBalancesPath()).
		Return(http.StatusOK, []byte(`{"balances":[{"account":"0.0.1","balance":"500"},{"account":"0.0.2","balance":"500"}],"links":{}}`), nil)

	result, err := newTestAggregator(client).Aggregate(context.Background(), testSource, testToken, []string{"0.0.3"})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Decimals)
	assert.Equal(t, "1000", result.Circulating.String())
	assert.Equal(t, "0", amountOf(t, result.TreasuryBalances, "0.0.3"))
	assert.Equal(t, []string{"0.0.1", "0.0.2"}, result.ConsumerBalances.Accounts())
}

func TestAggregate_FollowsCursorThroughEmptyPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_mirror.NewMockIClient(ctrl)

	cursor1 := "/api/v1/tokens/0.0.100/balances?timestamp=" + testTimestamp + "&account.id=gt:0.0.2"
	cursor2 := "/api/v1/tokens/0.0.100/balances?timestamp=" + testTimestamp + "&account.id=gt:0.0.5"

	gomock.InOrder(
		client.EXPECT().Fetch(gomock.Any(), testSource, infoPath()).
			Return(http.StatusOK, []byte(`{"total_supply":"100"}`), nil),
		client.EXPECT().Fetch(gomock.Any(), testSource, firstBalancesPath()).
			Return(http.StatusOK, []byte(`{"balances":[{"account":"0.0.1","balance":10},{"account":"0.0.2","balance":20}],"links":{"next":"`+cursor1+`"}}`), nil),
		client.EXPECT().Fetch(gomock.Any(), testSource, cursor1).
			Return(http.StatusOK, []byte(`{"balances":[],"links":{"next":"`+cursor2+`"}}`), nil),
		client.EXPECT().Fetch(gomock.Any(), testSource, cursor2).
			Return(http.StatusOK, []byte(`{"balances":[{"account":"0.0.7","balance":30}],"links":{"next":""}}`), nil),
	)

	var observed []int
	aggregator := newTestAggregator(client, WithPageObserver(func(page *BalancesPage) {
		observed = append(observed, page.Index)
	}))

	result, err := aggregator.Aggregate(context.Background(), testSource, testToken, []string{"0.0.7"})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 2}, observed)
	assert.Equal(t, "70", result.Circulating.String())
	assert.Equal(t, []string{"0.0.1", "0.0.2"}, result.ConsumerBalances.Accounts())
	assert.Equal(t, "30", amountOf(t, result.TreasuryBalances, "0.0.7"))
}

func TestAggregate_LaterPageOverwritesAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_mirror.NewMockIClient(ctrl)

	client.EXPECT().Fetch(gomock.Any(), testSource, infoPath()).
		Return(http.StatusOK, []byte(`{"total_supply":"100"}`), nil)
	client.EXPECT().Fetch(gomock.Any(), testSource, firstBalancesPath()).
		Return(http.StatusOK, []byte(`{"balances":[{"account":"0.0.1","balance":10},{"account":"0.0.2","balance":20}],"links":{"next":"/next"}}`), nil)
	client.EXPECT().Fetch(gomock.Any(), testSource, "/next").
		Return(http.StatusOK, []byte(`{"balances":[{"account":"0.0.1","balance":15}]}`), nil)

	result, err := newTestAggregator(client).Aggregate(context.Background(), testSource, testToken, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"0.0.1", "0.0.2"}, result.ConsumerBalances.Accounts())
	assert.Equal(t, "15", amountOf(t, result.ConsumerBalances, "0.0.1"))
	assert.Equal(t, "100", result.Circulating.String())
}

func TestAggregate_InvalidInputMakesNoRequests(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		token      string
		treasuries []string
	}{
		{name: "empty source", source: "", token: testToken},
		{name: "bad token", source: testSource, token: "token"},
		{name: "bad treasury", source: testSource, token: testToken, treasuries: []string{"0.0.1", "0.0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_mirror.NewMockIClient(ctrl)
			client.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			result, err := newTestAggregator(client).Aggregate(context.Background(), tt.source, tt.token, tt.treasuries)
			assert.Nil(t, result)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestAggregate_TokenNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_mirror.NewMockIClient(ctrl)

	client.EXPECT().Fetch(gomock.Any(), testSource, infoPath()).
		Return(http.StatusNotFound, []byte(`{"_status":{"messages":[{"message":"Not found"}]}}`), nil)

	result, err := newTestAggregator(client).Aggregate(context.Background(), testSource, testToken, nil)
	assert.Nil(t, result)
	require.True(t, errors.Is(err, ErrNotFound))

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, ResourceToken, notFound.Resource)
	assert.Equal(t, http.StatusNotFound, notFound.StatusCode)
	assert.Contains(t, err.Error(), testToken)
	assert.Contains(t, err.Error(), "404")
}

func TestAggregate_BalancesNotFoundOnLaterPage(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_mirror.NewMockIClient(ctrl)

	client.EXPECT().Fetch(gomock.Any(), testSource, infoPath()).
		Return(http.StatusOK, []byte(`{"total_supply":"100"}`), nil)
	client.EXPECT().Fetch(gomock.Any(), testSource, firstBalancesPath()).
		Return(http.StatusOK, []byte(`{"balances":[{"account":"0.0.1","balance":10}],"links":{"next":"/page2"}}`), nil)
	client.EXPECT().Fetch(gomock.Any(), testSource, "/page2").
		Return(http.StatusServiceUnavailable, nil, nil)

	result, err := newTestAggregator(client).Aggregate(context.Background(), testSource, testToken, nil)
	assert.Nil(t, result)

	var notFound *NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, ResourceBalances, notFound.Resource)
	assert.Equal(t, http.StatusServiceUnavailable, notFound.StatusCode)
}

func TestAggregate_NonOKSuccessStatusIsNotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_mirror.NewMockIClient(ctrl)

	client.EXPECT().Fetch(gomock.Any(), testSource, infoPath()).
		Return(http.StatusNoContent, nil, nil)

	_, err := newTestAggregator(client).Aggregate(context.Background(), testSource, testToken, nil)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestAggregate_TransportErrorReturnedVerbatim(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_mirror.NewMockIClient(ctrl)

	transportErr := &mirror.TransportError{Host: testSource, Path: firstBalancesPath(), Err: errors.New("connection reset")}

	client.EXPECT().Fetch(gomock.Any(), testSource, infoPath()).
		Return(http.StatusOK, []byte(`{"total_supply":"100"}`), nil)
	client.EXPECT().Fetch(gomock.Any(), testSource, firstBalancesPath()).
		Return(0, nil, transportErr)

	result, err := newTestAggregator(client).Aggregate(context.Background(), testSource, testToken, nil)
	assert.Nil(t, result)
	assert.Same(t, transportErr, err)
	assert.True(t, errors.Is(err, mirror.ErrTransport))
}

func TestAggregate_MalformedResponses(t *testing.T) {
	tests := []struct {
		name     string
		info     string
		balances string
		resource string
	}{
		{name: "info not json", info: `<html>`, resource: ResourceToken},
		{name: "info missing total supply", info: `{"decimals":"2"}`, resource: ResourceToken},
		{name: "info fractional total supply", info: `{"total_supply":"10.5"}`, resource: ResourceToken},
		{name: "info bad decimals", info: `{"total_supply":"10","decimals":"eight"}`, resource: ResourceToken},
		{name: "balances not json", info: `{"total_supply":"10"}`, balances: `not json`, resource: ResourceBalances},
		{name: "balance missing account", info: `{"total_supply":"10"}`, balances: `{"balances":[{"balance":1}]}`, resource: ResourceBalances},
		{name: "balance negative", info: `{"total_supply":"10"}`, balances: `{"balances":[{"account":"0.0.1","balance":-1}]}`, resource: ResourceBalances},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			client := mock_mirror.NewMockIClient(ctrl)

			client.EXPECT().Fetch(gomock.Any(), testSource, infoPath()).
				Return(http.StatusOK, []byte(tt.info), nil)
			if tt.balances != "" {
				client.EXPECT().Fetch(gomock.Any(), testSource, firstBalancesPath()).
					Return(http.StatusOK, []byte(tt.balances), nil)
			}

			result, err := newTestAggregator(client).Aggregate(context.Background(), testSource, testToken, nil)
			assert.Nil(t, result)
			require.True(t, errors.Is(err, ErrMalformedResponse))

			var malformed *MalformedResponseError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, tt.resource, malformed.Resource)
		})
	}
}

func TestAggregate_ExactBeyondFloatPrecision(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_mirror.NewMockIClient(ctrl)

	// 2^63 + 1 total, treasury holds 2^53 + 1
	client.EXPECT().Fetch(gomock.Any(), testSource, infoPath()).
		Return(http.StatusOK, []byte(`{"total_supply":"9223372036854775809","decimals":"18"}`), nil)
	client.EXPECT().Fetch(gomock.Any(), testSource, firstBalancesPath()).
		Return(http.StatusOK, []byte(`{"balances":[{"account":"0.0.1","balance":9007199254740993},{"account":"0.0.2","balance":9223363029655521816}]}`), nil)

	result, err := newTestAggregator(client).Aggregate(context.Background(), testSource, testToken, []string{"0.0.1"})
	require.NoError(t, err)

	expected, ok := new(big.Int).SetString("9223372036854775809", 10)
	require.True(t, ok)
	expected.Sub(expected, big.NewInt(9007199254740993))

	assert.Equal(t, expected.String(), result.Circulating.String())
	assert.Equal(t, "9007199254740993", amountOf(t, result.TreasuryBalances, "0.0.1"))
	assert.Equal(t, 18, result.Decimals)
}

func TestAggregate_DuplicateTreasurySubtractedTwice(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_mirror.NewMockIClient(ctrl)

	client.EXPECT().Fetch(gomock.Any(), testSource, infoPath()).
		Return(http.StatusOK, []byte(`{"total_supply":"1000"}`), nil)
	client.EXPECT().Fetch(gomock.Any(), testSource, firstBalancesPath()).
		Return(http.StatusOK, []byte(`{"balances":[{"account":"0.0.1","balance":700},{"account":"0.0.2","balance":300}]}`), nil)

	result, err := newTestAggregator(client).Aggregate(context.Background(), testSource, testToken, []string{"0.0.2", "0.0.2"})
	require.NoError(t, err)

	assert.Equal(t, "400", result.Circulating.String())
	assert.Equal(t, 1, result.TreasuryBalances.Len())
}

func TestAggregate_IndependentRuns(t *testing.T) {
	ctrl := gomock.NewController(t)
	client := mock_mirror.NewMockIClient(ctrl)

	client.EXPECT().Fetch(gomock.Any(), testSource, infoPath()).
		Return(http.StatusOK, []byte(`{"total_supply":"30"}`), nil).Times(2)
	client.EXPECT().Fetch(gomock.Any(), testSource, firstBalancesPath()).
		Return(http.StatusOK, []byte(`{"balances":[{"account":"0.0.1","balance":10},{"account":"0.0.2","balance":20}]}`), nil).Times(2)

	aggregator := newTestAggregator(client)

	first, err := aggregator.Aggregate(context.Background(), testSource, testToken, []string{"0.0.2"})
	require.NoError(t, err)
	second, err := aggregator.Aggregate(context.Background(), testSource, testToken, nil)
	require.NoError(t, err)

	assert.NotEqual(t, first.RunID, second.RunID)
	assert.Equal(t, "10", first.Circulating.String())
	assert.Equal(t, "30", second.Circulating.String())
	assert.Equal(t, 2, second.ConsumerBalances.Len())
}

func TestOutcomeOf(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, outcomeOf(nil))
	assert.Equal(t, OutcomeInvalidInput, outcomeOf(&InvalidInputError{Field: "token"}))
	assert.Equal(t, OutcomeNotFound, outcomeOf(&NotFoundError{Resource: ResourceToken}))
	assert.Equal(t, OutcomeTransportError, outcomeOf(&mirror.TransportError{Err: errors.New("x")}))
	assert.Equal(t, OutcomeMalformed, outcomeOf(&MalformedResponseError{Err: errors.New("x")}))
	assert.Equal(t, OutcomeError, outcomeOf(context.Canceled))
}
