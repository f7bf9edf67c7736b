// Package b2bi provides types, interfaces, and helpers for working with the
// B2B integration platform's REST and WS APIs.
//
// # Overview
//
// The b2bi package defines the request and response types, the error
// classifier, the WS response normalizer, the response cache, the change
// tracker and the entity types (Mailbox, TradingPartner, Certificate, User).
// A concrete client is provided by the b2biclient package, which wires
// configuration, transport, credentials and caching:
//
//	import (
//	  "context"
//	  "log"
//
//	  "github.com/fivetwenty-io/b2bi-client/pkg/b2bi"
//	  "github.com/fivetwenty-io/b2bi-client/pkg/b2biclient"
//	)
//
//	func example() {
//	  ctx := context.Background()
//	  cli, err := b2biclient.NewWithPassword(ctx, "https://host:5074/B2BAPIs/svc", "admin", "secret")
//	  if err != nil { log.Fatal(err) }
//
//	  mailboxes, err := cli.Mailboxes().List(ctx, b2bi.NewQueryParams().WithSort("path"))
//	  if err != nil { log.Fatal(err) }
//	  _ = mailboxes
//	}
//
// # Pagination
//
// Collections are fetched in ranges of Config.PageSize using offset and
// limit query parameters. FetchAll keeps requesting until a page comes back
// short, so a collection whose size is an exact multiple of the page size
// costs one extra (empty) request.
//
// # Errors
//
// Every failure is an *Error carrying a Kind. Use IsNotFound, IsValidation
// and friends, or errors.Is with the kind sentinels (ErrNotFound, ...).
// Find-style calls turn NotFound into a (zero, false, nil) result.
//
// # WS gateway
//
// The WS gateway transcodes XML to JSON and wraps rows in a result/row
// envelope. NormalizeWS removes the envelope so callers always see a plain
// object or array.
package b2bi
