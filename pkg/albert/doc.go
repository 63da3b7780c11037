// Package albert provides the types and building blocks of the Albert
// laboratory inventory API client.
//
// Resource models (InventoryItem, Project, Task, Company, ...) reference each
// other through Ref, which holds either a bare EntityLink or a full entity
// and always serializes as {"id": "..."}. References are never fetched
// implicitly; use Hydrate or HydrateAll to load the entity behind a link.
//
// Search and list calls return a PaginationIterator that fetches pages
// lazily and sequentially:
//
//	client, err := albertclient.NewWithToken(ctx, "https://app.albertinvent.com", token)
//	if err != nil {
//		return err
//	}
//
//	params := albert.NewQueryParams().
//		WithText("acetone").
//		WithFilter("category", albert.CategoryRawMaterials).
//		WithMaxItems(50)
//
//	items, err := client.Inventory().Search(ctx, params)
//	if err != nil {
//		return err
//	}
//
//	for item, err := range items.Seq() {
//		if err != nil {
//			return err
//		}
//		fmt.Println(item.ID, item.Name)
//	}
//
// Filters are normalized by NormalizeFilters before any request is made, so
// malformed criteria fail fast with an InvalidFilterError.
package albert
