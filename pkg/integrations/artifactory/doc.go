// Package artifactory provides an HTTP client for the JFrog Artifactory
// artifact search API.
//
// # Overview
//
// This package queries the quick-search endpoint
//
//	GET <base-url>/api/search/artifact?name=<artifact>
//
// which answers with one storage URI per matching file:
//
//	{"results": [{"uri": "https://host/artifactory/api/storage/libs/org/acme/widget/1.2.3/widget-1.2.3.jar"}]}
//
// # Usage
//
//	client := artifactory.NewClient("https://maven.example.org/artifactory", nil)
//	uris, err := client.Search(ctx, "widget")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Version extraction from the returned URIs lives in the version package;
// this client only transports them.
//
// # Requests
//
// Each call to [Client.Search] issues exactly one request. Responses are
// neither cached nor retried.
package artifactory
