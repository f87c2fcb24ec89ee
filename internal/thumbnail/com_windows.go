//go:build windows

package thumbnail

import (
	"context"
	"runtime"
	"syscall"
	"unsafe"

	ole "github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"

	"github.com/constellation/core/internal/domain"
)

var (
	modshell32                      = windows.NewLazySystemDLL("shell32.dll")
	modgdi32                        = windows.NewLazySystemDLL("gdi32.dll")
	procSHCreateItemFromParsingName = modshell32.NewProc("SHCreateItemFromParsingName")
	procCreateCompatibleDC          = modgdi32.NewProc("CreateCompatibleDC")
	procDeleteDC                    = modgdi32.NewProc("DeleteDC")
	procDeleteObject                = modgdi32.NewProc("DeleteObject")
	procGetObjectW                  = modgdi32.NewProc("GetObjectW")
	procGetDIBits                   = modgdi32.NewProc("GetDIBits")
)

// iidIShellItemImageFactory is {bcc18b79-ba16-442f-80c4-8a59c30c463b}.
var iidIShellItemImageFactory = ole.NewGUID("{BCC18B79-BA16-442F-80C4-8A59C30C463B}")

// iShellItemImageFactoryVtbl mirrors IShellItemImageFactory's vtable:
// IUnknown's three slots plus GetImage.
type iShellItemImageFactoryVtbl struct {
	ole.IUnknownVtbl
	GetImage uintptr
}

type iShellItemImageFactory struct {
	ole.IUnknown
}

func (v *iShellItemImageFactory) vtable() *iShellItemImageFactoryVtbl {
	return (*iShellItemImageFactoryVtbl)(unsafe.Pointer(v.RawVTable))
}

type sizeT struct{ cx, cy int32 }

type bitmap struct {
	bmType       int32
	bmWidth      int32
	bmHeight     int32
	bmWidthBytes int32
	bmPlanes     uint16
	bmBitsPixel  uint16
	bmBits       uintptr
}

type bitmapInfoHeader struct {
	biSize          uint32
	biWidth         int32
	biHeight        int32
	biPlanes        uint16
	biBitCount      uint16
	biCompression   uint32
	biSizeImage     uint32
	biXPelsPerMeter int32
	biYPelsPerMeter int32
	biClrUsed       uint32
	biClrImportant  uint32
}

type bitmapInfo struct {
	header  bitmapInfoHeader
	colors  [1]uint32
}

const (
	sIIGBFResizeToFit = 0x00
	biRGB             = 0
	dibRGBColors      = 0
)

// comWorker runs thumbnail generation on a single OS thread initialized
// as a COM apartment, grounded on com_worker.rs.
type comWorker struct {
	requests chan comRequest
}

type comRequest struct {
	path  string
	size  uint32
	reply chan comResult
}

type comResult struct {
	img rawImage
	err error
}

// NewWorker spawns the dedicated COM STA goroutine.
func NewWorker() Worker {
	w := &comWorker{requests: make(chan comRequest, 64)}
	go w.run()
	return w
}

func (w *comWorker) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	if err := ole.CoInitializeEx(0, ole.COINIT_APARTMENTTHREADED); err != nil {
		failure := domain.New(domain.ThumbnailError, "initialize COM: %v", err)
		for req := range w.requests {
			req.reply <- comResult{err: failure}
		}
		return
	}
	defer ole.CoUninitialize()

	for req := range w.requests {
		img, err := generateThumbnail(req.path, req.size)
		req.reply <- comResult{img: img, err: err}
	}
}

func (w *comWorker) Generate(ctx context.Context, path string, size uint32) (rawImage, error) {
	reply := make(chan comResult, 1)
	select {
	case w.requests <- comRequest{path: path, size: size, reply: reply}:
	case <-ctx.Done():
		return rawImage{}, ctx.Err()
	}
	select {
	case res := <-reply:
		return res.img, res.err
	case <-ctx.Done():
		return rawImage{}, ctx.Err()
	}
}

func (w *comWorker) Close() { close(w.requests) }

// generateThumbnail must run on the COM STA thread. It asks the shell
// for a thumbnail bitmap via IShellItemImageFactory::GetImage, then
// extracts 32-bit BGRA pixels via GDI and swaps to RGBA.
func generateThumbnail(path string, size uint32) (rawImage, error) {
	pathPtr, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return rawImage{}, domain.New(domain.ThumbnailError, "invalid path %q: %v", path, err)
	}

	var unk *ole.IUnknown
	hr, _, _ := procSHCreateItemFromParsingName.Call(
		uintptr(unsafe.Pointer(pathPtr)),
		0,
		uintptr(unsafe.Pointer(iidIShellItemImageFactory)),
		uintptr(unsafe.Pointer(&unk)),
	)
	if hr != 0 || unk == nil {
		return rawImage{}, domain.New(domain.ThumbnailError, "SHCreateItemFromParsingName %q: hr=0x%x", path, hr)
	}
	factory := (*iShellItemImageFactory)(unsafe.Pointer(unk))
	defer factory.Release()

	var hbitmap uintptr
	desired := sizeT{cx: int32(size), cy: int32(size)}
	ret, _, _ := syscall.SyscallN(factory.vtable().GetImage,
		uintptr(unsafe.Pointer(factory)),
		uintptr(uint32(desired.cx))|uintptr(uint32(desired.cy))<<32,
		uintptr(sIIGBFResizeToFit),
		uintptr(unsafe.Pointer(&hbitmap)),
	)
	if ret != 0 || hbitmap == 0 {
		return rawImage{}, domain.New(domain.ThumbnailError, "IShellItemImageFactory.GetImage %q: hr=0x%x", path, ret)
	}
	defer procDeleteObject.Call(hbitmap)

	var bm bitmap
	objRet, _, _ := procGetObjectW.Call(hbitmap, unsafe.Sizeof(bm), uintptr(unsafe.Pointer(&bm)))
	if objRet == 0 || bm.bmWidth == 0 || bm.bmHeight == 0 {
		return rawImage{}, domain.New(domain.ThumbnailError, "GetObjectW failed for %q", path)
	}
	width := uint32(bm.bmWidth)
	height := uint32(bm.bmHeight)

	hdc, _, _ := procCreateCompatibleDC.Call(0)
	if hdc == 0 {
		return rawImage{}, domain.New(domain.ThumbnailError, "CreateCompatibleDC failed for %q", path)
	}
	defer procDeleteDC.Call(hdc)

	var bmi bitmapInfo
	bmi.header.biSize = uint32(unsafe.Sizeof(bmi.header))
	bmi.header.biWidth = int32(width)
	bmi.header.biHeight = -int32(height)
	bmi.header.biPlanes = 1
	bmi.header.biBitCount = 32
	bmi.header.biCompression = biRGB

	buf := make([]byte, int(width)*int(height)*4)
	result, _, _ := procGetDIBits.Call(
		hdc,
		hbitmap,
		0,
		uintptr(height),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(unsafe.Pointer(&bmi)),
		dibRGBColors,
	)
	if result == 0 {
		return rawImage{}, domain.New(domain.ThumbnailError, "GetDIBits failed for %q", path)
	}

	for i := 0; i+3 < len(buf); i += 4 {
		buf[i], buf[i+2] = buf[i+2], buf[i]
	}

	return rawImage{rgba: buf, width: width, height: height}, nil
}
