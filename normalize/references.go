package normalize

// ExtractReferenceURLs scans free-form file content for embedded http(s)
// links. Manifests and bundled documentation routinely point at project
// homepages and repositories worth keeping alongside the composition.
func ExtractReferenceURLs(content []byte) []string {
	matches := urlPattern.FindAll(content, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(matches))
	urls := make([]string, 0, len(matches))
	for _, m := range matches {
		url := string(m)
		if seen[url] {
			continue
		}
		seen[url] = true
		urls = append(urls, url)
	}
	return urls
}
