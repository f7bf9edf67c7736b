// Package b2biclient provides the primary entry point for constructing a
// B2Bi API client that implements the b2bi.Client interface.
//
// It layers configuration, HTTP transport, credentials and the response
// cache on top of the interfaces and types defined in the b2bi package.
// Most applications import b2biclient to build a client, then use the
// returned b2bi.Client for generic service calls or the typed resource
// clients (Mailboxes(), TradingPartners(), Certificates(), Users()).
//
// Quick start
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
//
//	  cli, err := b2biclient.New(ctx, &b2bi.Config{
//	    RESTEndpoint: "https://b2bi.example.com:5074/B2BAPIs/svc",
//	    WSEndpoint:   "https://b2bi.example.com:5074/ws",
//	    Username:     "admin",
//	    Password:     "secret",
//	    Cache:        &b2bi.CacheConfig{Type: b2bi.CacheTypeFile},
//	  })
//	  if err != nil { log.Fatal(err) }
//
//	  partner, found, err := cli.TradingPartners().Find(ctx, "ACME")
//	  if err != nil { log.Fatal(err) }
//	  if !found { log.Print("no such partner") }
//	  _ = partner
//
//	  rows, err := cli.CallWS(ctx, "listCommunities", nil, b2bi.ShapeArray)
//	  if err != nil { log.Fatal(err) }
//	  _ = rows
//	}
//
// Endpoints given without a scheme are assumed to be https.
package b2biclient
