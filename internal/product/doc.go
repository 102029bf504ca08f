// Package product provides the product catalogue for Storefront Core.
//
// Products are owned resources: every product records the user who created
// it, and that ownership drives the write-access rules enforced by the API
// layer (owner or admin). The package itself stays authorisation-agnostic;
// it exposes owner IDs and lets callers decide.
//
// # Key Types
//
//   - Product: the catalogue entry (name, description, price, stock, owner)
//   - Update: a partial-update patch; nil fields keep their stored value
//   - ListFilter: pagination and free-text search for catalogue listings
//
// # Usage
//
//	repo := product.NewRepository(db)
//
//	p := &product.Product{
//	    Name:    "Walnut Desk",
//	    Price:   349.99,
//	    Stock:   12,
//	    OwnerID: user.ID,
//	}
//	if err := repo.Create(ctx, p); err != nil {
//	    return err
//	}
//
//	page, _ := repo.List(ctx, product.ListFilter{Search: "desk", Page: 1, Limit: 20})
//
// All repository operations are safe for concurrent use; SQLite serialises
// writes underneath.
package product
