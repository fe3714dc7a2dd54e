package targets

import "github.com/sw33tLie/genscope/pkg/storage"

func mkEntries(entries ...struct{ t, cat string }) []storage.AssetEntry {
	var result []storage.AssetEntry
	for _, tt := range entries {
		result = append(result, storage.AssetEntry{
			Slug:             "test",
			ProgramURL:       "https://immunefi.com/bounty/test",
			TargetNormalized: tt.t,
			Category:         tt.cat,
		})
	}
	return result
}

func web(target string) struct{ t, cat string } {
	return struct{ t, cat string }{target, "WEB"}
}

func contract(target string) struct{ t, cat string } {
	return struct{ t, cat string }{target, "SMART_CONTRACT"}
}
