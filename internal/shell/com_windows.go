//go:build windows

// Package shell adapts the Windows Shell namespace: it binds the recycle
// bin special folder and exposes trashing, enumeration, restore and
// permanent deletion through the shell's own file-operation machinery.
package shell

import (
	"syscall"
	"unsafe"

	"github.com/go-ole/go-ole"
	"golang.org/x/sys/windows"
)

var (
	modShell32  = windows.NewLazySystemDLL("shell32.dll")
	modShlwapi  = windows.NewLazySystemDLL("shlwapi.dll")
	modOle32    = windows.NewLazySystemDLL("ole32.dll")
	modOleAut32 = windows.NewLazySystemDLL("oleaut32.dll")

	procSHGetDesktopFolder          = modShell32.NewProc("SHGetDesktopFolder")
	procSHGetSpecialFolderLocation  = modShell32.NewProc("SHGetSpecialFolderLocation")
	procSHFileOperationW            = modShell32.NewProc("SHFileOperationW")
	procSHCreateItemFromIDList      = modShell32.NewProc("SHCreateItemFromIDList")
	procILCreateFromPathW           = modShell32.NewProc("ILCreateFromPathW")
	procILCombine                   = modShell32.NewProc("ILCombine")
	procStrRetToBufW                = modShlwapi.NewProc("StrRetToBufW")
	procCoTaskMemFree               = modOle32.NewProc("CoTaskMemFree")
	procVarDateFromStr              = modOleAut32.NewProc("VarDateFromStr")
)

// Shell interface and class identifiers.
var (
	iidIShellFolder2    = ole.NewGUID("{93F2F68C-1D1B-11D3-A30E-00C04F79ABD1}")
	iidIShellItem       = ole.NewGUID("{43826D1E-E718-42EE-BC55-A1E261C37BFE}")
	iidIFileOperation   = ole.NewGUID("{947AAB5F-0A5C-4C13-B4D6-4BF7836FC9F8}")
	clsidFileOperation  = ole.NewGUID("{3AD05575-8857-4850-9277-11B85BDB8E09}")
)

const (
	csidlBitbucket = 0x000a

	shcontfFolders       = 0x0020
	shcontfNonFolders    = 0x0040
	shcontfIncludeHidden = 0x0080

	sfgaoFolder = 0x20000000

	shgdnNormal = 0x0000

	foDelete = 3

	fofSilent         = 0x0004
	fofNoConfirmation = 0x0010
	fofAllowUndo      = 0x0040
	fofNoConfirmMkdir = 0x0200
	fofNoErrorUI      = 0x0400

	localeUserDefault = 0x0400
)

// Recycle bin detail columns.
const (
	colName             = 0
	colOriginalLocation = 1
	colDateDeleted      = 2
	colExtension        = 166
)

type shFileOpStructW struct {
	hwnd                  uintptr
	wFunc                 uint32
	pFrom                 *uint16
	pTo                   *uint16
	fFlags                uint16
	fAnyOperationsAborted int32
	hNameMappings         uintptr
	lpszProgressTitle     *uint16
}

type strRet struct {
	uType uint32
	_     uint32
	data  [264]byte
}

type shellDetails struct {
	fmt    int32
	cxChar int32
	str    strRet
}

// IShellFolder wraps the shell namespace folder interface.
type IShellFolder struct {
	ole.IUnknown
}

type iShellFolderVtbl struct {
	ole.IUnknownVtbl
	ParseDisplayName uintptr
	EnumObjects      uintptr
	BindToObject     uintptr
	BindToStorage    uintptr
	CompareIDs       uintptr
	CreateViewObject uintptr
	GetAttributesOf  uintptr
	GetUIObjectOf    uintptr
	GetDisplayNameOf uintptr
	SetNameOf        uintptr
}

func (f *IShellFolder) vtbl() *iShellFolderVtbl {
	return (*iShellFolderVtbl)(unsafe.Pointer(f.RawVTable))
}

func (f *IShellFolder) BindToObject(pidl uintptr, iid *ole.GUID) (*IShellFolder2, error) {
	var out uintptr
	hr, _, _ := syscall.SyscallN(f.vtbl().BindToObject,
		uintptr(unsafe.Pointer(f)),
		pidl,
		0,
		uintptr(unsafe.Pointer(iid)),
		uintptr(unsafe.Pointer(&out)))
	if err := hresultErr("BindToObject", hr); err != nil {
		return nil, err
	}
	return (*IShellFolder2)(unsafe.Pointer(out)), nil
}

func (f *IShellFolder) GetDisplayNameOf(pidl uintptr, flags uint32) (string, error) {
	var sr strRet
	hr, _, _ := syscall.SyscallN(f.vtbl().GetDisplayNameOf,
		uintptr(unsafe.Pointer(f)),
		pidl,
		uintptr(flags),
		uintptr(unsafe.Pointer(&sr)))
	if err := hresultErr("GetDisplayNameOf", hr); err != nil {
		return "", err
	}
	return strRetToString(&sr, pidl)
}

// IShellFolder2 extends IShellFolder with the detail-column interface the
// recycle bin exposes deletion metadata through.
type IShellFolder2 struct {
	ole.IUnknown
}

type iShellFolder2Vtbl struct {
	iShellFolderVtbl
	GetDefaultSearchGUID  uintptr
	EnumSearches          uintptr
	GetDefaultColumn      uintptr
	GetDefaultColumnState uintptr
	GetDetailsEx          uintptr
	GetDetailsOf          uintptr
	MapColumnToSCID       uintptr
}

func (f *IShellFolder2) vtbl() *iShellFolder2Vtbl {
	return (*iShellFolder2Vtbl)(unsafe.Pointer(f.RawVTable))
}

func (f *IShellFolder2) EnumObjects(flags uint32) (*IEnumIDList, error) {
	var out uintptr
	hr, _, _ := syscall.SyscallN(f.vtbl().EnumObjects,
		uintptr(unsafe.Pointer(f)),
		0,
		uintptr(flags),
		uintptr(unsafe.Pointer(&out)))
	if err := hresultErr("EnumObjects", hr); err != nil {
		return nil, err
	}
	if out == 0 {
		return nil, nil
	}
	return (*IEnumIDList)(unsafe.Pointer(out)), nil
}

func (f *IShellFolder2) GetAttributesOf(pidl uintptr, mask uint32) (uint32, error) {
	attrs := mask
	hr, _, _ := syscall.SyscallN(f.vtbl().GetAttributesOf,
		uintptr(unsafe.Pointer(f)),
		1,
		uintptr(unsafe.Pointer(&pidl)),
		uintptr(unsafe.Pointer(&attrs)))
	if err := hresultErr("GetAttributesOf", hr); err != nil {
		return 0, err
	}
	return attrs, nil
}

func (f *IShellFolder2) GetDetailsOf(pidl uintptr, column uint32) (string, error) {
	var details shellDetails
	hr, _, _ := syscall.SyscallN(f.vtbl().GetDetailsOf,
		uintptr(unsafe.Pointer(f)),
		pidl,
		uintptr(column),
		uintptr(unsafe.Pointer(&details)))
	if err := hresultErr("GetDetailsOf", hr); err != nil {
		return "", err
	}
	return strRetToString(&details.str, pidl)
}

// IEnumIDList walks the children of a shell folder.
type IEnumIDList struct {
	ole.IUnknown
}

type iEnumIDListVtbl struct {
	ole.IUnknownVtbl
	Next  uintptr
	Skip  uintptr
	Reset uintptr
	Clone uintptr
}

func (e *IEnumIDList) vtbl() *iEnumIDListVtbl {
	return (*iEnumIDListVtbl)(unsafe.Pointer(e.RawVTable))
}

// Next returns the next child item identifier list, or 0 when the
// enumeration is exhausted. The returned PIDL is owned by the caller and
// must be released with the shell task allocator.
func (e *IEnumIDList) Next() (uintptr, error) {
	var pidl uintptr
	var fetched uint32
	hr, _, _ := syscall.SyscallN(e.vtbl().Next,
		uintptr(unsafe.Pointer(e)),
		1,
		uintptr(unsafe.Pointer(&pidl)),
		uintptr(unsafe.Pointer(&fetched)))
	if err := hresultErr("IEnumIDList.Next", hr); err != nil {
		return 0, err
	}
	if hr != 0 || fetched == 0 {
		// S_FALSE: no more items.
		return 0, nil
	}
	return pidl, nil
}

// IShellItem is the shell's item abstraction used by IFileOperation.
type IShellItem struct {
	ole.IUnknown
}

// IFileOperation batches shell file operations.
type IFileOperation struct {
	ole.IUnknown
}

type iFileOperationVtbl struct {
	ole.IUnknownVtbl
	Advise                  uintptr
	Unadvise                uintptr
	SetOperationFlags       uintptr
	SetProgressMessage      uintptr
	SetProgressDialog       uintptr
	SetProperties           uintptr
	SetOwnerWindow          uintptr
	ApplyPropertiesToItem   uintptr
	ApplyPropertiesToItems  uintptr
	RenameItem              uintptr
	RenameItems             uintptr
	MoveItem                uintptr
	MoveItems               uintptr
	CopyItem                uintptr
	CopyItems               uintptr
	DeleteItem              uintptr
	DeleteItems             uintptr
	NewItem                 uintptr
	PerformOperations       uintptr
	GetAnyOperationsAborted uintptr
}

func (o *IFileOperation) vtbl() *iFileOperationVtbl {
	return (*iFileOperationVtbl)(unsafe.Pointer(o.RawVTable))
}

func (o *IFileOperation) SetOperationFlags(flags uint32) error {
	hr, _, _ := syscall.SyscallN(o.vtbl().SetOperationFlags,
		uintptr(unsafe.Pointer(o)),
		uintptr(flags))
	return hresultErr("SetOperationFlags", hr)
}

func (o *IFileOperation) MoveItem(item *IShellItem, destFolder *IShellItem) error {
	hr, _, _ := syscall.SyscallN(o.vtbl().MoveItem,
		uintptr(unsafe.Pointer(o)),
		uintptr(unsafe.Pointer(item)),
		uintptr(unsafe.Pointer(destFolder)),
		0,
		0)
	return hresultErr("MoveItem", hr)
}

func (o *IFileOperation) DeleteItem(item *IShellItem) error {
	hr, _, _ := syscall.SyscallN(o.vtbl().DeleteItem,
		uintptr(unsafe.Pointer(o)),
		uintptr(unsafe.Pointer(item)),
		0)
	return hresultErr("DeleteItem", hr)
}

func (o *IFileOperation) PerformOperations() error {
	hr, _, _ := syscall.SyscallN(o.vtbl().PerformOperations,
		uintptr(unsafe.Pointer(o)))
	return hresultErr("PerformOperations", hr)
}

func shGetDesktopFolder() (*IShellFolder, error) {
	var out uintptr
	hr, _, _ := procSHGetDesktopFolder.Call(uintptr(unsafe.Pointer(&out)))
	if err := hresultErr("SHGetDesktopFolder", hr); err != nil {
		return nil, err
	}
	return (*IShellFolder)(unsafe.Pointer(out)), nil
}

func shGetSpecialFolderLocation(csidl int32) (uintptr, error) {
	var pidl uintptr
	hr, _, _ := procSHGetSpecialFolderLocation.Call(0, uintptr(csidl), uintptr(unsafe.Pointer(&pidl)))
	if err := hresultErr("SHGetSpecialFolderLocation", hr); err != nil {
		return 0, err
	}
	return pidl, nil
}

func shCreateItemFromIDList(pidl uintptr) (*IShellItem, error) {
	var out uintptr
	hr, _, _ := procSHCreateItemFromIDList.Call(
		pidl,
		uintptr(unsafe.Pointer(iidIShellItem)),
		uintptr(unsafe.Pointer(&out)))
	if err := hresultErr("SHCreateItemFromIDList", hr); err != nil {
		return nil, err
	}
	return (*IShellItem)(unsafe.Pointer(out)), nil
}

func ilCreateFromPath(path string) (uintptr, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return 0, err
	}
	pidl, _, _ := procILCreateFromPathW.Call(uintptr(unsafe.Pointer(p)))
	if pidl == 0 {
		return 0, hresultErr("ILCreateFromPathW", 0x80070057) // E_INVALIDARG
	}
	return pidl, nil
}

func ilCombine(parent, child uintptr) uintptr {
	pidl, _, _ := procILCombine.Call(parent, child)
	return pidl
}

func coTaskMemFree(p uintptr) {
	if p != 0 {
		procCoTaskMemFree.Call(p)
	}
}

func strRetToString(sr *strRet, pidl uintptr) (string, error) {
	buf := make([]uint16, 512)
	hr, _, _ := procStrRetToBufW.Call(
		uintptr(unsafe.Pointer(sr)),
		pidl,
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)))
	if err := hresultErr("StrRetToBufW", hr); err != nil {
		return "", err
	}
	return windows.UTF16ToString(buf), nil
}

// varDateFromString parses a locale-formatted date/time string into an
// OLE DATE value.
func varDateFromString(value string) (float64, error) {
	p, err := windows.UTF16PtrFromString(value)
	if err != nil {
		return 0, err
	}
	var date float64
	hr, _, _ := procVarDateFromStr.Call(
		uintptr(unsafe.Pointer(p)),
		localeUserDefault,
		0,
		uintptr(unsafe.Pointer(&date)))
	if err := hresultErr("VarDateFromStr", hr); err != nil {
		return 0, err
	}
	return date, nil
}
