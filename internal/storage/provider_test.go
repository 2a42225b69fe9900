package storage

import "testing"

func TestParseProvider(t *testing.T) {
	cases := []struct {
		in   string
		want Provider
	}{
		{"s3", ProviderS3},
		{" S3 ", ProviderS3},
		{"Wasabi", ProviderWasabi},
		{"ORACLE", ProviderOracle},
	}
	for _, tc := range cases {
		got, err := ParseProvider(tc.in)
		if err != nil {
			t.Fatalf("ParseProvider(%q): %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("ParseProvider(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
	if _, err := ParseProvider("gcs"); err == nil {
		t.Fatal("unknown provider accepted")
	}
}

func TestTrimEndpoint(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://s3.amazonaws.com", "s3.amazonaws.com"},
		{"http://localhost:9000/", "localhost:9000"},
		{"s3.wasabisys.com", "s3.wasabisys.com"},
	}
	for _, tc := range cases {
		if got := trimEndpoint(tc.in); got != tc.want {
			t.Fatalf("trimEndpoint(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestProvidersOrder(t *testing.T) {
	want := []Provider{ProviderS3, ProviderWasabi, ProviderOracle}
	if len(Providers) != len(want) {
		t.Fatalf("Providers = %v", Providers)
	}
	for i := range want {
		if Providers[i] != want[i] {
			t.Fatalf("Providers[%d] = %s, want %s", i, Providers[i], want[i])
		}
	}
}
