// Package osconnect provides a thin client for OpenSearch clusters.
//
// The client normalizes the endpoint, validates basic-auth credentials and
// translates every failure into one of three sentinel errors:
// ErrConnection, ErrAuthentication and ErrQuery.
//
//	client, err := osconnect.New(ctx, "https://search.example.com/", "admin", "secret")
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	ok, _ := client.Ping(ctx)
//	_, _ = client.IndexDocument(ctx, "trades", map[string]any{"tradeID": "T1"}, "1")
//	res, err := client.Search(ctx, "trades", map[string]any{
//	    "query": map[string]any{"match_all": map[string]any{}},
//	})
//
// Responses are returned as generic maps; numbers decode as json.Number.
//
// Trades runs the web application's filtered search and CSV export in process:
//
//	page, err := client.Trades("trades").Search(ctx, osconnect.Filters{
//	    Region:   "E",
//	    DateFrom: "2024-01-01",
//	    DateTo:   "2024-01-31",
//	}, 1, 100)
package osconnect
