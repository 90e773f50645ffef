package media

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

var errNoMovieHeader = errors.New("no mvhd box found")

// ProbeDuration reads the playback length in seconds from the movie header
// of an MP4/QuickTime file.
func ProbeDuration(path string) (float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, err
	}

	moov, err := findBox(f, 0, info.Size(), "moov")
	if err != nil {
		return 0, err
	}
	mvhd, err := findBox(f, moov.body, moov.end, "mvhd")
	if err != nil {
		return 0, err
	}
	return readMovieHeader(f, mvhd.body)
}

type box struct {
	body int64
	end  int64
}

// findBox scans sibling boxes in [start, end) for the given type.
func findBox(r io.ReaderAt, start, end int64, want string) (box, error) {
	hdr := make([]byte, 16)
	for off := start; off+8 <= end; {
		if _, err := r.ReadAt(hdr[:8], off); err != nil {
			return box{}, err
		}
		size := int64(binary.BigEndian.Uint32(hdr[:4]))
		typ := string(hdr[4:8])
		headerLen := int64(8)

		switch size {
		case 0:
			size = end - off
		case 1:
			if _, err := r.ReadAt(hdr[8:16], off+8); err != nil {
				return box{}, err
			}
			size = int64(binary.BigEndian.Uint64(hdr[8:16]))
			headerLen = 16
		}
		if size < headerLen || off+size > end {
			return box{}, fmt.Errorf("malformed box %q at offset %d", typ, off)
		}
		if typ == want {
			return box{body: off + headerLen, end: off + size}, nil
		}
		off += size
	}
	return box{}, errNoMovieHeader
}

func readMovieHeader(r io.ReaderAt, off int64) (float64, error) {
	buf := make([]byte, 32)
	if _, err := r.ReadAt(buf[:1], off); err != nil {
		return 0, err
	}

	var timescale uint32
	var duration uint64
	switch buf[0] {
	case 0:
		// version, flags, creation, modification, timescale, duration
		if _, err := r.ReadAt(buf[:20], off); err != nil {
			return 0, err
		}
		timescale = binary.BigEndian.Uint32(buf[12:16])
		duration = uint64(binary.BigEndian.Uint32(buf[16:20]))
	case 1:
		if _, err := r.ReadAt(buf[:32], off); err != nil {
			return 0, err
		}
		timescale = binary.BigEndian.Uint32(buf[20:24])
		duration = binary.BigEndian.Uint64(buf[24:32])
	default:
		return 0, fmt.Errorf("unsupported mvhd version %d", buf[0])
	}

	if timescale == 0 {
		return 0, errors.New("mvhd timescale is zero")
	}
	return float64(duration) / float64(timescale), nil
}
