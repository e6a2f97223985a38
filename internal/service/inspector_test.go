package service

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/k8ika0s/wheel-inspector/internal/cache"
	"github.com/k8ika0s/wheel-inspector/internal/events"
	"github.com/k8ika0s/wheel-inspector/internal/policy"
	"github.com/k8ika0s/wheel-inspector/internal/store"
)

// fakeObjects serves wheels from a map.
type fakeObjects struct {
	objects map[string][]byte
}

func (f *fakeObjects) Get(_ context.Context, key string) ([]byte, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func (f *fakeObjects) List(_ context.Context, prefix string) ([]string, error) {
	var keys []string
	for key := range f.objects {
		keys = append(keys, key)
	}
	return keys, nil
}

// fakePublisher collects events.
type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (f *fakePublisher) Publish(_ context.Context, evt events.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, evt)
	return nil
}

func wheelBytes(t *testing.T, distInfoDir, wheelText, recordText string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"pkg/__init__.py":         "x = 1\n",
		distInfoDir + "/WHEEL":    wheelText,
		distInfoDir + "/RECORD":   recordText,
		distInfoDir + "/METADATA": "Metadata-Version: 2.1\n",
	} {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return buf.Bytes()
}

func goodWheel(t *testing.T) []byte {
	return wheelBytes(t, "pkg-1.0.dist-info",
		"Wheel-Version: 1.0\nGenerator: bdist_wheel 1.0\nRoot-Is-Purelib: true\nTag: py3-none-any\n",
		"pkg/__init__.py,sha256=AAA,6\npkg-1.0.dist-info/RECORD,,\n")
}

func testInspector(objects map[string][]byte) (*Inspector, *fakePublisher, *store.MemoryStore) {
	pub := &fakePublisher{}
	st := &store.MemoryStore{}
	i := &Inspector{
		Objects: &fakeObjects{objects: objects},
		Cache:   cache.NullCache{},
		Events:  pub,
		Reports: st,
		Policy:  policy.Default(),
		Cfg:     Config{CacheTTLSec: 60, Concurrency: 2, ScanLimit: 100},
	}
	return i, pub, st
}

func TestInspect(t *testing.T) {
	i, pub, st := testInspector(map[string][]byte{
		"wheels/pkg-1.0-py3-none-any.whl": goodWheel(t),
	})

	report, err := i.Inspect(context.Background(), "wheels/pkg-1.0-py3-none-any.whl")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if report.Name.Distribution != "pkg" || report.Name.Version.String() != "1.0" {
		t.Fatalf("report name=%+v", report.Name)
	}
	if report.Entries != 2 || report.KnownBytes != 6 || report.NoDigest != 1 {
		t.Fatalf("report stats=%+v", report)
	}
	if !report.HasMetadata {
		t.Fatalf("expected metadata flag")
	}
	if len(report.Violations) != 0 {
		t.Fatalf("violations=%+v, expected none", report.Violations)
	}

	if len(pub.events) != 1 || pub.events[0].Status != "inspected" {
		t.Fatalf("events=%+v", pub.events)
	}
	rows, err := st.Recent(context.Background(), 10)
	if err != nil || len(rows) != 1 || rows[0].Status != "inspected" {
		t.Fatalf("rows=%+v err=%v", rows, err)
	}
}

func TestInspectBadName(t *testing.T) {
	i, pub, st := testInspector(map[string][]byte{
		"wheels/pkg-1.0.tar.gz": []byte("junk"),
	})
	_, err := i.Inspect(context.Background(), "wheels/pkg-1.0.tar.gz")
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(pub.events) != 1 || pub.events[0].Status != "invalid" {
		t.Fatalf("events=%+v, expected one invalid event", pub.events)
	}
	rows, _ := st.Recent(context.Background(), 10)
	if len(rows) != 1 || rows[0].Status != "invalid" {
		t.Fatalf("rows=%+v", rows)
	}
}

func TestInspectMissingObject(t *testing.T) {
	i, _, _ := testInspector(nil)
	if _, err := i.Inspect(context.Background(), "wheels/missing.whl"); err == nil {
		t.Fatalf("expected fetch error")
	}
}

func TestInspectPolicyViolations(t *testing.T) {
	i, _, _ := testInspector(map[string][]byte{
		"wheels/pkg-1.0-py3-none-any.whl": wheelBytes(t, "pkg-1.0.dist-info",
			"Wheel-Version: 1.0\nGenerator: g\nRoot-Is-Purelib: true\n",
			"pkg/__init__.py,md5=AAA,6\npkg-1.0.dist-info/RECORD,,\n"),
	})
	report, err := i.Inspect(context.Background(), "wheels/pkg-1.0-py3-none-any.whl")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if len(report.Violations) != 1 || report.Violations[0].Rule != "algorithm" {
		t.Fatalf("violations=%+v, expected md5 flagged", report.Violations)
	}
}

func TestInspectPrefix(t *testing.T) {
	i, _, st := testInspector(map[string][]byte{
		"wheels/pkg-1.0-py3-none-any.whl": goodWheel(t),
		"wheels/broken-1.0.tar.gz":        []byte("junk"),
	})
	reports, err := i.InspectPrefix(context.Background(), "wheels/")
	if err != nil {
		t.Fatalf("InspectPrefix: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("reports=%d, expected the valid wheel only", len(reports))
	}
	rows, _ := st.Recent(context.Background(), 10)
	if len(rows) != 2 {
		t.Fatalf("rows=%d, expected both outcomes recorded", len(rows))
	}
}

func TestInspectBytesNoSideEffects(t *testing.T) {
	i, pub, st := testInspector(nil)
	if _, err := i.InspectBytes("pkg-1.0-py3-none-any.whl", goodWheel(t)); err != nil {
		t.Fatalf("InspectBytes: %v", err)
	}
	rows, _ := st.Recent(context.Background(), 10)
	if len(pub.events) != 0 || len(rows) != 0 {
		t.Fatalf("expected no events or rows, got %d/%d", len(pub.events), len(rows))
	}
}
