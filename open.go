package ewf

import (
	"fmt"
	"os"

	"github.com/dcforensics/goewf/internal/chunktable"
	"github.com/dcforensics/goewf/internal/errorset"
	"github.com/dcforensics/goewf/internal/headervalue"
	"github.com/dcforensics/goewf/internal/iopool"
	"github.com/dcforensics/goewf/internal/media"
	"github.com/dcforensics/goewf/internal/section"
	"github.com/dcforensics/goewf/internal/segment"
)

// Open reads an existing segmented image in filename order (spec.md §4.5
// "open(filenames[]) in READ → Reading"). It verifies each file's
// signature, walks its section chain, populates the Media Model, Chunk
// Table, and Header/Hash Values, and classifies the image's Format before
// returning.
func (h *Handle) Open(paths []string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state != StateFresh || h.flags&FlagRead == 0 {
		return &InvalidArgumentError{What: fmt.Sprintf("open(read) called in state %s", h.state)}
	}
	if len(paths) == 0 {
		return &InvalidArgumentError{What: "open: no paths given"}
	}

	var (
		runningChunkIndex       uint32
		runningChunkIndexTable2 uint32
		lastTableStart          uint64
		sig                     formatSignals
		headerVals              *headervalue.Values
		header2Vals             *headervalue.Values
		xheaderVals             *headervalue.Values
	)

	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return &IoError{Op: "open", Path: path, Kind: classifyOpenErr(err), Err: err}
		}
		var hdrBuf [segment.FileHeaderSize]byte
		if _, err := f.ReadAt(hdrBuf[:], 0); err != nil {
			f.Close()
			return &IoError{Op: "read", Path: path, Kind: IoShortRead, Err: err}
		}
		fi, err := f.Stat()
		if err != nil {
			f.Close()
			return &IoError{Op: "stat", Path: path, Kind: IoNotFound, Err: err}
		}
		fileSize := fi.Size()
		f.Close()

		fh, err := segment.UnmarshalFileHeader(hdrBuf)
		if err != nil {
			return &InvalidFormatError{Where: path, Reason: err.Error()}
		}
		v1, v2 := fh.Version()
		if !v1 && !v2 {
			return &InvalidFormatError{Where: path, Reason: "unrecognized segment signature"}
		}
		if v2 {
			sig.isV2 = true
		}
		h.v2 = h.v2 || v2

		seg := h.segments.Add(path)
		h.pool.Register(seg.Index, path, iopool.ReadOnly)

		located, err := section.WalkChain(h.pool.ReaderAt(seg.Index), segment.FileHeaderSize, fileSize, h.tolerance, sectionLogger{h.logger})
		if err != nil {
			return &InvalidFormatError{Where: path, Reason: err.Error()}
		}
		seg.Sections = located

		for _, loc := range located {
			body := make([]byte, loc.BodySize)
			if _, err := h.pool.ReadAt(seg.Index, int64(loc.BodyOffset), body); err != nil {
				return &IoError{Op: "read", Path: path, Kind: IoShortRead, Err: err}
			}

			switch loc.Kind() {
			case section.KindVolume, section.KindData, section.KindDisk:
				if err := h.ingestVolume(body, &sig); err != nil {
					return err
				}
				if loc.Kind() == section.KindDisk {
					sig.hasVolumeS01 = true
				}

			case section.KindHeader:
				text, err := headervalue.DecodeBytes(headervalue.SectionHeader, body)
				if err != nil {
					return &InvalidFormatError{Where: path, Reason: err.Error()}
				}
				vals, err := headervalue.ParseText(text, false)
				if err != nil {
					return &InvalidFormatError{Where: path, Reason: err.Error()}
				}
				headerVals = vals
				sig.hasHeaderOnly = true
				sig.headerIsCRLF = containsCRLF(text)
				if len(text) > 31 {
					sig.headerByte25IsR = text[25] == 'r'
					sig.headerByte31IsR = text[31] == 'r'
				}
				if v, ok := vals.Get(headervalue.AcquirySoftwareVersion); ok {
					sig.acquirySoftware3 = len(v) > 0 && v[0] == '3'
				}

			case section.KindHeader2:
				text, err := headervalue.DecodeBytes(headervalue.SectionHeader2, body)
				if err != nil {
					return &InvalidFormatError{Where: path, Reason: err.Error()}
				}
				vals, err := headervalue.ParseText(text, true)
				if err != nil {
					return &InvalidFormatError{Where: path, Reason: err.Error()}
				}
				header2Vals = vals
				sig.hasHeader2 = true
				sig.header2ThirdCP = thirdUTF16Codepoint(text)
				sig.header2HasAVMD = hasAVMDMarkers(text)

			case section.KindXHeader:
				text, err := headervalue.DecodeBytes(headervalue.SectionXHeader, body)
				if err != nil {
					return &InvalidFormatError{Where: path, Reason: err.Error()}
				}
				vals, err := headervalue.ParseXHeaderText(text)
				if err != nil {
					return &InvalidFormatError{Where: path, Reason: err.Error()}
				}
				xheaderVals = vals
				sig.hasXHeader = true

			case section.KindTable:
				lastTableStart = loc.StartOffset
				n, err := h.ingestTable(body, seg.Index, loc.StartOffset, &runningChunkIndex, false)
				if err != nil {
					return err
				}
				_ = n

			case section.KindTable2:
				n, err := h.ingestTable(body, seg.Index, lastTableStart, &runningChunkIndexTable2, true)
				if err != nil {
					return err
				}
				_ = n

			case section.KindSession:
				s, _, err := errorset.Unmarshal(body)
				if err != nil {
					return &InvalidFormatError{Where: path, Reason: err.Error()}
				}
				mergeInto(h.sessions, s)

			case section.KindError2:
				s, _, err := errorset.Unmarshal(body)
				if err != nil {
					return &InvalidFormatError{Where: path, Reason: err.Error()}
				}
				mergeInto(h.acquiryErrors, s)

			case section.KindHash:
				if len(body) >= headervalue.HashSectionSize {
					var b [headervalue.HashSectionSize]byte
					copy(b[:], body)
					d, _, _ := headervalue.UnmarshalHash(b)
					h.digest.MD5, h.digest.HasMD5 = d.MD5, true
				}

			case section.KindDigest:
				if len(body) >= headervalue.DigestSectionSize {
					var b [headervalue.DigestSectionSize]byte
					copy(b[:], body)
					d, _, _ := headervalue.UnmarshalDigest(b)
					h.digest = d
				}

			case section.KindXHash:
				text, err := headervalue.DecodeBytes(headervalue.SectionXHeader, body)
				if err == nil {
					if vals, err := headervalue.ParseXHeaderText(text); err == nil {
						headervalue.Copy(h.hashValues, vals)
					}
				}

			case section.KindDone:
				// terminal; nothing to ingest.
			}
		}
	}

	switch {
	case xheaderVals != nil:
		headervalue.Copy(h.headerValues, xheaderVals)
	case header2Vals != nil:
		headervalue.Copy(h.headerValues, header2Vals)
	case headerVals != nil:
		headervalue.Copy(h.headerValues, headerVals)
	}

	h.media.Freeze()
	h.format = detectFormat(sig)
	if h.format == FormatUnknown {
		return &UnsupportedFormatError{}
	}
	h.state = StateReading
	return nil
}

func (h *Handle) ingestVolume(body []byte, sig *formatSignals) error {
	if len(body) < media.VolumeSectionSize {
		return &InvalidFormatError{Where: "volume", Reason: "body shorter than volume section"}
	}
	var b [media.VolumeSectionSize]byte
	copy(b[:], body)
	m, _, err := media.UnmarshalVolume(b)
	if err != nil {
		return &InvalidFormatError{Where: "volume", Reason: err.Error()}
	}
	if h.media.NumberOfChunks == 0 && h.media.BytesPerSector == 0 {
		h.media = m
		return nil
	}
	if field, ok := h.media.ConsistentWith(m); !ok {
		return &InconsistentVolumeError{Field: field}
	}
	return nil
}

func (h *Handle) ingestTable(body []byte, segmentIndex int, lastEntryEnd uint64, runningChunkIndex *uint32, isTable2 bool) (int, error) {
	hdr, headerOK, err := chunktable.ParseV1Header(body)
	if err != nil {
		return 0, &InvalidFormatError{Where: "table", Reason: err.Error()}
	}
	raw, entriesOK, err := chunktable.ParseV1Entries(body, hdr.NumberOfEntries, true)
	if err != nil {
		return 0, &InvalidFormatError{Where: "table", Reason: err.Error()}
	}
	entries := chunktable.ResolveV1(raw, hdr.BaseOffset, segmentIndex, lastEntryEnd)
	if !headerOK || !entriesOK {
		entries = chunktable.TaintAll(entries)
	}

	startIndex := *runningChunkIndex
	if isTable2 {
		if err := h.chunks.Correct(startIndex, entries); err != nil {
			return 0, err
		}
		*runningChunkIndex += uint32(len(entries))
	} else {
		if err := h.chunks.Fill(startIndex, entries, !headerOK || !entriesOK); err != nil {
			if dup, ok := err.(*chunktable.DuplicateBindingError); ok {
				return 0, &DuplicateBindingError{ChunkIndex: dup.ChunkIndex}
			}
			return 0, err
		}
		*runningChunkIndex += uint32(len(entries))
	}
	return len(entries), nil
}

func mergeInto(dst, src *errorset.Set) {
	for _, iv := range src.All() {
		dst.Add(iv.FirstSector, iv.Count, true)
	}
}

func containsCRLF(s string) bool {
	for i := 0; i+1 < len(s); i++ {
		if s[i] == '\r' && s[i+1] == '\n' {
			return true
		}
	}
	return false
}

func classifyOpenErr(err error) IoKind {
	if os.IsNotExist(err) {
		return IoNotFound
	}
	if os.IsPermission(err) {
		return IoPermission
	}
	return IoClosed
}
