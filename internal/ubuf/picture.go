package ubuf

import (
	"errors"

	"github.com/openheadend/upipe-go/internal/refcount"
	"github.com/openheadend/upipe-go/internal/umem"
)

// PlaneDesc describes one named plane of a picture format: its
// subsampling relative to the picture's macropixel grid and the byte
// width of one macropixel on this plane.
type PlaneDesc struct {
	Name    string
	HSub    int // horizontal subsampling, e.g. 2 for 4:2:0 chroma
	VSub    int
	MacroBW int // bytes per macropixel on this plane
}

// plane is one allocated plane backing a picture: a stride-addressed
// 2D region with symmetric left/right/top/bottom padding quotas.
type plane struct {
	desc          PlaneDesc
	back          *backing
	stride        int
	hPad, vPad    int // padding quota each side, in macropixels
	visW, visH    int // visible width/height in macropixels (pre-subsampling)
	lOff, tOff    int // current left/top skip into the padding, in macropixels
}

// PicMgr is the factory for Picture buffers.
type PicMgr struct {
	mem    umem.Mgr
	planes []PlaneDesc
	align  int
}

// NewPicMgr creates a picture-buffer manager for the given plane
// layout (e.g. I420's y8/u8/v8 triple).
func NewPicMgr(mem umem.Mgr, planes []PlaneDesc, align int) *PicMgr {
	if align <= 0 {
		align = 1
	}
	return &PicMgr{mem: mem, planes: planes, align: align}
}

// Alloc allocates a picture of w x h macropixels with hPad/vPad
// padding macropixels of slack on every side (so pic_resize can grow
// back into it without reallocating).
func (m *PicMgr) Alloc(w, h, hPad, vPad int) (*Picture, error) {
	pic := &Picture{mgr: m, w: w, h: h}
	for _, d := range m.planes {
		pw := (w + 2*hPad) / d.HSub
		ph := (h + 2*vPad) / d.VSub
		stride := align(pw*d.MacroBW, m.align)
		size := stride * ph
		mem, err := m.mem.Alloc(size)
		if err != nil {
			return nil, err
		}
		pic.planes = append(pic.planes, &plane{
			desc: d, back: newBacking(m.mem, mem), stride: stride,
			hPad: hPad / d.HSub, vPad: vPad / d.VSub,
			visW: w / d.HSub, visH: h / d.VSub,
			lOff: hPad / d.HSub, tOff: vPad / d.VSub,
		})
	}
	pic.rc = refcount.New(pic.destroy)
	return pic, nil
}

func align(n, a int) int {
	if a <= 1 {
		return n
	}
	if r := n % a; r != 0 {
		n += a - r
	}
	return n
}

// Picture is the picture-variant payload buffer.
type Picture struct {
	rc     *refcount.Refcount
	mgr    *PicMgr
	w, h   int
	planes []*plane
}

func (p *Picture) destroy() {
	for _, pl := range p.planes {
		pl.back.rc.Release()
	}
}

func (p *Picture) Use() Buffer {
	p.rc.Use()
	return p
}
func (p *Picture) Release() { p.rc.Release() }
func (p *Picture) Dup() Buffer {
	return p.Use()
}

func (p *Picture) Shared() bool {
	if p.rc.Count() > 1 {
		return true
	}
	for _, pl := range p.planes {
		if pl.back.rc.Count() > 1 {
			return true
		}
	}
	return false
}

// Size returns the picture's current visible width and height, in
// macropixels.
func (p *Picture) Size() (w, h int) { return p.w, p.h }

func (p *Picture) plane(name string) (*plane, error) {
	for _, pl := range p.planes {
		if pl.desc.Name == name {
			return pl, nil
		}
	}
	return nil, errors.New("ubuf: no such plane")
}

// PlaneSize returns the named plane's stride and subsampling.
func (p *Picture) PlaneSize(name string) (stride, hsub, vsub int, err error) {
	pl, err := p.plane(name)
	if err != nil {
		return 0, 0, 0, err
	}
	return pl.stride, pl.desc.HSub, pl.desc.VSub, nil
}

// resolve maps picture-relative (x,y,w,h) (negative x/y address from
// the far edge, -1 length means "to the end") onto one plane's
// macropixel grid, honoring its subsampling.
func (pl *plane) resolve(x, y, w, h int) (rx, ry, rw, rh int) {
	pw, ph := pl.visW, pl.visH
	if x < 0 {
		x = pw + x
	}
	if y < 0 {
		y = ph + y
	}
	if w < 0 {
		w = pw - x
	}
	if h < 0 {
		h = ph - y
	}
	return x, y, w, h
}

func (pl *plane) access(x, y, w, h int) ([]byte, int, error) {
	rx, ry, rw, rh := pl.resolve(x, y, w, h)
	if rx < 0 || ry < 0 || rw < 0 || rh < 0 || rx+rw > pl.visW || ry+rh > pl.visH {
		return nil, 0, errors.New("ubuf: plane region out of visible bounds")
	}
	base := pl.back.mem.Buf
	lineStart := (pl.tOff+ry)*pl.stride + (pl.lOff+rx)*pl.desc.MacroBW
	end := lineStart
	if rw > 0 && rh > 0 {
		end += (rh-1)*pl.stride + rw*pl.desc.MacroBW
	}
	if end > len(base) {
		return nil, 0, errors.New("ubuf: plane region exceeds backing buffer")
	}
	return base[lineStart:end], pl.stride, nil
}

// PlaneRead maps a rectangular region of the named plane for
// read-only access; the returned slice's stride is returned
// separately since Go slices cannot describe 2D strided access.
func (p *Picture) PlaneRead(name string, x, y, w, h int) (data []byte, stride int, err error) {
	pl, err := p.plane(name)
	if err != nil {
		return nil, 0, err
	}
	return pl.access(x, y, w, h)
}

// PlaneWrite is PlaneRead with the copy-on-write check.
func (p *Picture) PlaneWrite(name string, x, y, w, h int) (data []byte, stride int, err error) {
	if p.Shared() {
		return nil, 0, ErrWouldCopy
	}
	return p.PlaneRead(name, x, y, w, h)
}

// Resize performs a zero-copy window shift into existing padding:
// lskip/tskip move the visible window's origin (negative values grow
// outward, consuming padding quota; positive values crop inward).
// newW/newH set the new visible size directly (not deltas); -1 keeps
// the plane's current visible size unchanged. Fails if the requested
// window would move the origin before the start of the backing
// buffer; the caller then must Replace.
func (p *Picture) Resize(lskip, tskip, newW, newH int) error {
	for _, pl := range p.planes {
		dl := lskip / pl.desc.HSub
		dt := tskip / pl.desc.VSub
		nw := pl.visW
		if newW >= 0 {
			nw = newW / pl.desc.HSub
		}
		nh := pl.visH
		if newH >= 0 {
			nh = newH / pl.desc.VSub
		}
		newLOff := pl.lOff + dl
		newTOff := pl.tOff + dt
		if newLOff < 0 || newTOff < 0 {
			return errors.New("ubuf: pic_resize exceeds available padding")
		}
		pl.lOff = newLOff
		pl.tOff = newTOff
		pl.visW = nw
		pl.visH = nh
	}
	if newW >= 0 {
		p.w = newW
	}
	if newH >= 0 {
		p.h = newH
	}
	return nil
}

// Replace allocates a fresh picture of the requested size and copies
// every plane's current visible content into it, for use when Resize
// would exceed padding.
func (p *Picture) Replace(newW, newH, hPad, vPad int) (*Picture, error) {
	np, err := p.mgr.Alloc(newW, newH, hPad, vPad)
	if err != nil {
		return nil, err
	}
	for i, pl := range p.planes {
		npl := np.planes[i]
		for row := 0; row < pl.visH && row < npl.visH; row++ {
			src, _, err := pl.access(0, row, pl.visW, 1)
			if err != nil {
				return nil, err
			}
			dst, _, err := npl.access(0, row, npl.visW, 1)
			if err != nil {
				return nil, err
			}
			n := pl.visW * pl.desc.MacroBW
			if m := npl.visW * npl.desc.MacroBW; m < n {
				n = m
			}
			copy(dst[:n], src[:n])
		}
	}
	return np, nil
}

// Clear zeroes every plane's visible content.
func (p *Picture) Clear() error {
	for _, pl := range p.planes {
		for row := 0; row < pl.visH; row++ {
			data, _, err := pl.access(0, row, pl.visW, 1)
			if err != nil {
				return err
			}
			n := pl.visW * pl.desc.MacroBW
			for i := 0; i < n; i++ {
				data[i] = 0
			}
		}
	}
	return nil
}

// Blit copies src's visible content onto p at (dstX, dstY), plane by
// matching plane name, clipping to p's bounds.
func (p *Picture) Blit(src *Picture, dstX, dstY int) error {
	for _, spl := range src.planes {
		dpl, err := p.plane(spl.desc.Name)
		if err != nil {
			continue
		}
		dx := dstX / dpl.desc.HSub
		dy := dstY / dpl.desc.VSub
		for row := 0; row < spl.visH; row++ {
			if dy+row >= dpl.visH {
				break
			}
			srow, _, err := spl.access(0, row, spl.visW, 1)
			if err != nil {
				return err
			}
			drow, _, err := dpl.access(dx, dy+row, spl.visW, 1)
			if err != nil {
				break
			}
			n := spl.visW * spl.desc.MacroBW
			copy(drow[:n], srow[:n])
		}
	}
	return nil
}

var _ Buffer = (*Picture)(nil)
