// Package albertclient constructs clients for the Albert laboratory and
// inventory REST API. The returned albert.Client exposes one collection per
// resource: Inventory(), Projects(), Tasks(), Companies(), Locations(),
// Tags(), Cas(), Users() and CustomFields().
//
// Quick start
//
//	ctx := context.Background()
//
//	cli, err := albertclient.NewWithToken(ctx, "https://app.albertinvent.com", token)
//	if err != nil { log.Fatal(err) }
//
//	params := albert.NewQueryParams().
//	  WithText("acetone").
//	  WithFilter("category", albert.CategoryRawMaterials).
//	  WithMaxItems(50)
//
//	it, err := cli.Inventory().Search(ctx, params)
//	if err != nil { log.Fatal(err) }
//
//	for item, err := range it.Seq() {
//	  if err != nil { log.Fatal(err) }
//	  fmt.Println(item.ID, item.Name)
//	}
//
// Search results are partial records. GetAll fetches the full entity for
// each hit, one request per item:
//
//	full, err := cli.Inventory().GetAll(ctx, params)
//
// Client credentials are exchanged for a token on the first request and
// renewed when it expires:
//
//	cli, err := albertclient.NewWithClientCredentials(ctx, baseURL, clientID, secret)
//
// For logging, retries, caching or interceptors build an albert.Config and
// call New.
package albertclient
