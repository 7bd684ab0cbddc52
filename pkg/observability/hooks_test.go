package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	r := NoopResolveHooks{}
	r.OnResolveStart(ctx, "arachne-core")
	r.OnResolveComplete(ctx, "arachne-core", "1.0.0", time.Second, nil)

	d := NoopDocumentHooks{}
	d.OnDocumentStart(ctx, "index.html", 3)
	d.OnDocumentComplete(ctx, "index.html", 2, 1, time.Second, nil)

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "GET", "maven.example.org", "/api/search/artifact")
	h.OnResponse(ctx, "GET", "maven.example.org", "/api/search/artifact", 200, time.Second)
	h.OnError(ctx, "GET", "maven.example.org", "/api/search/artifact", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Resolve().(NoopResolveHooks); !ok {
		t.Error("Resolve() should return NoopResolveHooks by default")
	}
	if _, ok := Document().(NoopDocumentHooks); !ok {
		t.Error("Document() should return NoopDocumentHooks by default")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should return NoopHTTPHooks by default")
	}

	customResolve := &testResolveHooks{}
	SetResolveHooks(customResolve)
	if Resolve() != customResolve {
		t.Error("SetResolveHooks should set custom hooks")
	}

	customDocument := &testDocumentHooks{}
	SetDocumentHooks(customDocument)
	if Document() != customDocument {
		t.Error("SetDocumentHooks should set custom hooks")
	}

	customHTTP := &testHTTPHooks{}
	SetHTTPHooks(customHTTP)
	if HTTP() != customHTTP {
		t.Error("SetHTTPHooks should set custom hooks")
	}

	Reset()
	if _, ok := Resolve().(NoopResolveHooks); !ok {
		t.Error("Reset() should restore NoopResolveHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testResolveHooks{}
	SetResolveHooks(custom)
	SetResolveHooks(nil)

	if Resolve() != custom {
		t.Error("SetResolveHooks(nil) should be ignored")
	}

	Reset()
}

type testResolveHooks struct{ NoopResolveHooks }
type testDocumentHooks struct{ NoopDocumentHooks }
type testHTTPHooks struct{ NoopHTTPHooks }
