// Package integrations provides HTTP clients for artifact repository APIs.
//
// # Overview
//
// This package contains the shared transport used by repository clients.
// Each repository flavor has its own subpackage:
//
//   - [artifactory]: JFrog Artifactory artifact search
//
// # Client Pattern
//
// Repository clients embed [Client] and follow a consistent pattern:
//
//	client := artifactory.NewClient("https://maven.example.org/artifactory", nil)
//	uris, err := client.Search(ctx, "arachne-core")
//
// Clients handle:
//   - A single GET per call, with no retries and no response cache
//   - Status classification into [ErrNotFound] and [ErrNetwork]
//   - JSON decoding, reported as [ErrInvalidResponse] on failure
//
// Every request is reported through the observability HTTP hooks.
//
// [artifactory]: github.com/matzehuels/docver/pkg/integrations/artifactory
package integrations
