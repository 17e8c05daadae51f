// Package storus provides a Go client for the stoo key-value store, talking to its gRPC KvService.
//
// Basic usage:
//
//	cfg := storus.FromURL("http://localhost:50051")
//	client, err := storus.New(ctx, cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// store a value
//	_, err = client.Set(ctx, "my-app", "prod", "database.username", "admin")
//
//	// store a secret value
//	_, err = client.SetSecret(ctx, "my-app", "prod", "database.password", "s3cret")
//
//	// retrieve a value
//	value, err := client.Get(ctx, "my-app", "prod", "database.username")
//
//	// get all pairs of a namespace and profile
//	all, err := client.GetAllByNamespaceAndProfile(ctx, "my-app", "prod")
//
// With TLS and default namespace and profile:
//
//	cfg := storus.FromURL("https://localhost:50051").
//	    WithConnectTimeout(time.Second).
//	    WithResponseTimeout(20 * time.Second).
//	    WithDefaultNamespace("my-app").
//	    WithDefaultProfile("prod").
//	    WithCACertificate("/etc/stoo/ca_cert.pem").
//	    WithDomain("stoo.example.com")
//	client, err := storus.New(ctx, cfg)
//
//	value, err := client.GetDefault(ctx, "database.username")
//
// Failed calls return *StatusError, rendered as "<code> - <message>":
//
//	_, err = client.Get(ctx, "my-app", "prod", "missing")
//	if errors.Is(err, storus.ErrNotFound) {
//	    // NotFound - ...
//	}
package storus
