// Package pkg provides the libraries behind docver, which fills artifact
// version placeholders in documentation.
//
// # Overview
//
// Documentation code samples carry tokens such as <arachne-core-version>.
// docver finds them, asks an Artifactory repository for every file published
// under the artifact, picks the greatest version and writes it in place of
// the token. The pkg directory is organized as:
//
//  1. [version] - Version values, URI parsing and ordering
//  2. [resolver] - One repository search per call, newest version out
//  3. [integrations] - HTTP client and the Artifactory search API
//  4. [placeholder] - Finding tokens in HTML and text, applying replacements
//  5. [pipeline] - Scan, resolve concurrently, apply once
//  6. [server] - Documentation server resolving on every page load
//  7. [config], [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Data Flow
//
//	Document (HTML or text)
//	         ↓
//	    [placeholder] scan → occurrences
//	         ↓
//	    [resolver] per occurrence → [integrations/artifactory] search
//	         ↓
//	    [version] parse + max
//	         ↓
//	    [placeholder] apply → rewritten document
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/docver/pkg/integrations/artifactory"
//	    "github.com/matzehuels/docver/pkg/pipeline"
//	    "github.com/matzehuels/docver/pkg/resolver"
//	)
//
//	client := artifactory.NewClient("http://maven.arachne-framework.org/artifactory", nil)
//	res := resolver.New(client, "arachne-framework")
//
//	v, err := res.Resolve(ctx, "arachne-core") // "0.2.0-master-0105-"
//
//	runner := pipeline.NewRunner(res, "<<API ERROR: maven.arachne-framework.org>>", nil)
//	out, err := runner.Process(ctx, pipeline.NewDocument("index.html", page))
//
// Failed lookups never fail a document: the occurrence gets the error marker
// and the remaining placeholders still resolve.
package pkg
