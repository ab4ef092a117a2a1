package storage

import "testing"

type mapStore map[string]string

func (m mapStore) Get(key string) (string, bool, error) {
	v, ok := m[key]
	return v, ok, nil
}

func (m mapStore) Set(key, value string) error {
	m[key] = value
	return nil
}

func TestWithPrefix(t *testing.T) {
	backing := mapStore{}
	a := WithPrefix(backing, "client-a")
	b := WithPrefix(backing, "client-b/")

	if err := a.Set("theme", "light"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	if _, ok := backing["client-a/theme"]; !ok {
		t.Errorf("Expected namespaced key, got %v", backing)
	}
	if _, found, _ := b.Get("theme"); found {
		t.Error("Namespaces should not leak into each other")
	}
	if v, found, _ := a.Get("theme"); !found || v != "light" {
		t.Errorf("Expected light, got %q (found=%v)", v, found)
	}
	if b.Prefix() != "client-b/" {
		t.Errorf("Expected single trailing separator, got %q", b.Prefix())
	}
}
