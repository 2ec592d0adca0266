package section

// Build serializes a complete section (descriptor + body) at a known
// fileOffset, given the offset where the *next* section will begin. The
// caller is responsible for knowing nextOffset ahead of time (it is either
// fileOffset+len(body)+DescriptorSize for a mid-segment section, or the
// placeholder the `next`/`done` trailer overwrites once the segment is
// finalized).
func Build(k Kind, body []byte, fileOffset uint64, nextOffset uint64) []byte {
	desc := NewDescriptor(k, uint64(len(body)), nextOffset)
	hdr := desc.Marshal()
	out := make([]byte, 0, len(hdr)+len(body))
	out = append(out, hdr[:]...)
	out = append(out, body...)
	return out
}

// BuildTrailer serializes a zero-body `next` or `done` descriptor, used to
// terminate a segment or the whole image (spec.md §4.2, §4.5).
func BuildTrailer(k Kind, fileOffset uint64, nextOffset uint64) []byte {
	desc := NewDescriptor(k, 0, nextOffset)
	hdr := desc.Marshal()
	return hdr[:]
}
