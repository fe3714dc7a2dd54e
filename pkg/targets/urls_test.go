package targets

import "testing"

func TestCollectURLs(t *testing.T) {
	ents := mkEntries(
		web("https://app.example.com"),
		web("http://test.com/api"),
		web("example.com"),
		contract("https://etherscan.io/address/0x1f98431c8ad98523631ae4a59f267346ea31f984"),
	)

	got := CollectURLs(ents)
	if len(got) != 2 {
		t.Fatalf("expected 2 URLs, got %d: %v", len(got), got)
	}
}

func TestCollectURLs_Deduplicates(t *testing.T) {
	ents := mkEntries(
		web("https://example.com"),
		web("https://example.com"),
	)

	got := CollectURLs(ents)
	if len(got) != 1 {
		t.Fatalf("expected 1 deduplicated URL, got %d: %v", len(got), got)
	}
}

func TestCollectURLs_Sorted(t *testing.T) {
	ents := mkEntries(
		web("https://z.com"),
		web("https://a.com"),
		web("https://m.com"),
	)

	got := CollectURLs(ents)
	if got[0] != "https://a.com" || got[1] != "https://m.com" || got[2] != "https://z.com" {
		t.Fatalf("expected sorted results, got %v", got)
	}
}
