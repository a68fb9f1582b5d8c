package product

import "strings"

// DriveImageURLs expands a publicly shared Google Drive file into the chain of
// candidate URLs a browser tries in order until one renders. Drive ids and
// resource keys are URL-safe and are interpolated as is.
func DriveImageURLs(fileID, resourceKey string) []string {
	if fileID == "" {
		return nil
	}
	id := fileID
	rk := ""
	if resourceKey != "" {
		rk = "&resourcekey=" + resourceKey
	}
	return []string{
		"https://drive.google.com/uc?export=view&id=" + id + rk,
		"https://drive.google.com/uc?export=download&id=" + id + rk,
		"https://drive.google.com/thumbnail?id=" + id + rk + "&sz=w1600",
		"https://lh3.googleusercontent.com/d/" + id + "=w1600",
		"https://drive.usercontent.google.com/download?id=" + id + "&export=view" + rk + "&authuser=0",
		"https://drive.usercontent.google.com/download?id=" + id + "&export=download" + rk + "&authuser=0",
	}
}

// ResolveImageURL prefixes relative image paths with base. Absolute URLs and
// an empty base leave src unchanged.
func ResolveImageURL(base, src string) string {
	if base == "" || src == "" || strings.Contains(src, "://") {
		return src
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(src, "/")
}
