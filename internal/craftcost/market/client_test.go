package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wowcraft/craftcost-server/pkg/craftcost"
)

func TestClientListServers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wow-classic/v1/servers/full/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"slug": "gehennas", "name": "Gehennas", "region": "EU"},
			{"slug": "whitemane", "name": "Whitemane", "region": "US"}
		]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	servers, err := client.ListServers(context.Background())
	require.NoError(t, err)
	require.Equal(t, []craftcost.Server{
		{Slug: "gehennas", Name: "Gehennas", Region: "EU"},
		{Slug: "whitemane", Name: "Whitemane", Region: "US"},
	}, servers)
}

func TestClientFetchPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/wow-classic/v1/items/gehennas-horde/", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"slug": "gehennas-horde",
			"data": [
				{"itemId": 12359, "quantity": 120, "marketValue": 31500},
				{"itemId": 2589, "quantity": 4000, "marketValue": 450}
			]
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	snap, err := client.FetchPrices(context.Background(), "gehennas", craftcost.FactionHorde)
	require.NoError(t, err)
	require.Equal(t, craftcost.Snapshot{
		12359: {Quantity: 120, MarketValue: 31500},
		2589:  {Quantity: 4000, MarketValue: 450},
	}, snap)
}

func TestClientRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"slug": "gehennas-horde", "data": []}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	snap, err := client.FetchPrices(context.Background(), "gehennas", craftcost.FactionHorde)
	require.NoError(t, err)
	require.Empty(t, snap)
	require.Equal(t, 3, calls)
}

func TestClientNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.FetchPrices(context.Background(), "nowhere", craftcost.FactionHorde)
	require.ErrorContains(t, err, "nowhere-horde")
}
