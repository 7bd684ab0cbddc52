package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	derrors "github.com/matzehuels/docver/pkg/errors"
	"github.com/matzehuels/docver/pkg/integrations"
	"github.com/matzehuels/docver/pkg/integrations/artifactory"
)

const group = "arachne-framework"

func uri(artifact, segment string) string {
	return fmt.Sprintf("http://repo/artifactory/api/storage/libs/org/%s/%s/%s/%s-%s.jar",
		group, artifact, segment, artifact, segment)
}

type fakeSearcher struct {
	uris  map[string][]string
	err   error
	calls atomic.Int32
}

func (f *fakeSearcher) Search(_ context.Context, name string) ([]string, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.uris[name], nil
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		segments []string
		want     string
	}{
		{"single plain", []string{"1.2.3"}, "1.2.3"},
		{"suffix kept verbatim", []string{"2.0.1-rc-0042-"}, "2.0.1-rc-0042-"},
		{"numeric not lexical", []string{"1.9.9", "2.0.0", "1.10.0"}, "2.0.0"},
		{"minor ten", []string{"1.9.0", "1.10.0"}, "1.10.0"},
		{"commit ordering", []string{"0.2.0-master-0042-", "0.2.0-master-0107-", "0.2.0-master-0099-"}, "0.2.0-master-0107-"},
		{"release beats older build", []string{"0.1.0-master-9999-", "0.2.0"}, "0.2.0"},
		{"unparseable skipped", []string{"latest", "1.0.0"}, "1.0.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var uris []string
			for _, s := range tt.segments {
				uris = append(uris, uri("arachne-core", s))
			}
			r := New(&fakeSearcher{uris: map[string][]string{"arachne-core": uris}}, group)

			got, err := r.Resolve(context.Background(), "arachne-core")
			if err != nil {
				t.Fatalf("Resolve() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolveVersion(t *testing.T) {
	r := New(&fakeSearcher{uris: map[string][]string{
		"arachne-core": {uri("arachne-core", "2.0.1-rc-0042-")},
	}}, group)

	res, err := r.ResolveVersion(context.Background(), "arachne-core")
	if err != nil {
		t.Fatalf("ResolveVersion() error: %v", err)
	}
	if res.Version.Major != 2 || res.Version.Patch != 1 || res.Version.Commit != 42 {
		t.Errorf("ResolveVersion() = %+v", res.Version)
	}
}

func TestResolveSkipsOtherArtifactsAndGroups(t *testing.T) {
	r := New(&fakeSearcher{uris: map[string][]string{"arachne-core": {
		uri("arachne-core-extras", "9.9.9"),
		"http://repo/artifactory/api/storage/libs/org/elsewhere/arachne-core/8.0.0/a.jar",
		uri("arachne-core", "0.3.0"),
	}}}, group)

	got, err := r.Resolve(context.Background(), "arachne-core")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != "0.3.0" {
		t.Errorf("Resolve() = %q, want 0.3.0", got)
	}
}

func TestResolveAnyGroup(t *testing.T) {
	r := New(&fakeSearcher{uris: map[string][]string{"widget": {
		"http://repo/api/storage/libs/org/acme/widget/1.0.0/widget.jar",
	}}}, "")
	got, err := r.Resolve(context.Background(), "widget")
	if err != nil || got != "1.0.0" {
		t.Errorf("Resolve() = %q, %v; want 1.0.0, nil", got, err)
	}
}

func TestResolveEmpty(t *testing.T) {
	tests := []struct {
		name string
		uris []string
	}{
		{"no records", nil},
		{"all unparseable", []string{uri("arachne-core", "latest"), "garbage"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&fakeSearcher{uris: map[string][]string{"arachne-core": tt.uris}}, group)
			_, err := r.Resolve(context.Background(), "arachne-core")
			if !errors.Is(err, ErrNoVersions) {
				t.Errorf("Resolve() error = %v, want ErrNoVersions", err)
			}
			if !derrors.Is(err, derrors.ErrCodeNoVersions) {
				t.Errorf("error code = %q, want NO_VERSIONS", derrors.GetCode(err))
			}
		})
	}
}

func TestResolveTransportErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code derrors.Code
	}{
		{"network", fmt.Errorf("search: %w", integrations.ErrNetwork), derrors.ErrCodeNetwork},
		{"not found", fmt.Errorf("search: %w", integrations.ErrNotFound), derrors.ErrCodeNotFound},
		{"decode", fmt.Errorf("search: %w", integrations.ErrInvalidResponse), derrors.ErrCodeNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(&fakeSearcher{err: tt.err}, group)
			_, err := r.Resolve(context.Background(), "arachne-core")
			if !derrors.Is(err, tt.code) {
				t.Errorf("Resolve() error = %v, want code %s", err, tt.code)
			}
			if errors.Is(err, ErrNoVersions) {
				t.Error("transport failure must not look like an empty result")
			}
		})
	}
}

func TestResolveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := New(&fakeSearcher{err: fmt.Errorf("search: %w", context.Canceled)}, group)
	_, err := r.Resolve(ctx, "arachne-core")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve() error = %v, want context.Canceled", err)
	}
}

func TestResolveInvalidName(t *testing.T) {
	s := &fakeSearcher{}
	r := New(s, group)
	for _, name := range []string{"", "a/b", "x&name=y"} {
		_, err := r.Resolve(context.Background(), name)
		if !derrors.Is(err, derrors.ErrCodeInvalidArtifact) {
			t.Errorf("Resolve(%q) error = %v, want INVALID_ARTIFACT", name, err)
		}
	}
	if s.calls.Load() != 0 {
		t.Error("invalid names must not reach the repository")
	}
}

func TestResolveIdempotent(t *testing.T) {
	s := &fakeSearcher{uris: map[string][]string{"arachne-core": {
		uri("arachne-core", "1.0.0"), uri("arachne-core", "1.1.0-master-0003-"),
	}}}
	r := New(s, group)

	first, err1 := r.Resolve(context.Background(), "arachne-core")
	second, err2 := r.Resolve(context.Background(), "arachne-core")
	if err1 != nil || err2 != nil {
		t.Fatalf("Resolve() errors: %v, %v", err1, err2)
	}
	if first != second {
		t.Errorf("Resolve() not stable: %q then %q", first, second)
	}
	if s.calls.Load() != 2 {
		t.Errorf("searcher called %d times, want one call per Resolve", s.calls.Load())
	}
}

func TestResolveAgainstArtifactory(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		name := r.URL.Query().Get("name")
		type rec struct {
			URI string `json:"uri"`
		}
		json.NewEncoder(w).Encode(map[string][]rec{"results": {
			{URI: uri(name, "0.1.0-master-0010-")},
			{URI: uri(name, "0.1.0-master-0012-")},
			{URI: uri(name, "0.0.9")},
		}})
	}))
	defer server.Close()

	r := New(artifactory.NewClient(server.URL, server.Client()), group)
	got, err := r.Resolve(context.Background(), "arachne-http")
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}
	if got != "0.1.0-master-0012-" {
		t.Errorf("Resolve() = %q", got)
	}
	if hits.Load() != 1 {
		t.Errorf("server hit %d times, want 1", hits.Load())
	}
}

func TestResolveAgainstFailingArtifactory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	r := New(artifactory.NewClient(server.URL, server.Client()), group)
	_, err := r.Resolve(context.Background(), "arachne-core")
	if !derrors.Is(err, derrors.ErrCodeNetwork) {
		t.Errorf("Resolve() error = %v, want NETWORK_ERROR", err)
	}
	if !errors.Is(err, integrations.ErrNetwork) {
		t.Error("cause should match integrations.ErrNetwork")
	}
}
