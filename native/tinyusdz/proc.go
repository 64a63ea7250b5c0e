// Copyright 2024 Gustavo C. Viegas. All rights reserved.

//go:build cgo && !windows

package tinyusdz

/*
#cgo linux LDFLAGS: -ldl
#include <dlfcn.h>
#include <stdint.h>
#include <stdlib.h>
#include <string.h>

typedef struct CTinyUSDStage CTinyUSDStage;
typedef struct CTinyUSDPrim CTinyUSDPrim;
typedef struct CTinyUSDPath CTinyUSDPath;
typedef struct c_tinyusd_string c_tinyusd_string;
typedef struct c_tinyusd_token_vector c_tinyusd_token_vector;
typedef int (*traversal_fn)(const CTinyUSDPrim *, const CTinyUSDPath *);

static CTinyUSDStage *(*p_stage_new)(void);
static int (*p_stage_free)(CTinyUSDStage *);
static int (*p_load_usd_from_file)(const char *, CTinyUSDStage *, c_tinyusd_string *, c_tinyusd_string *);
static int (*p_stage_to_string)(const CTinyUSDStage *, c_tinyusd_string *);
static int (*p_stage_traverse)(const CTinyUSDStage *, traversal_fn, c_tinyusd_string *);
static const char *(*p_prim_type)(const CTinyUSDPrim *);
static const char *(*p_prim_element_name)(const CTinyUSDPrim *);
static uint64_t (*p_prim_num_children)(const CTinyUSDPrim *);
static int (*p_prim_get_child)(const CTinyUSDPrim *, uint64_t, const CTinyUSDPrim **);
static int (*p_prim_get_property_names)(const CTinyUSDPrim *, c_tinyusd_token_vector *);
static int (*p_prim_to_string)(const CTinyUSDPrim *, c_tinyusd_string *);
static c_tinyusd_string *(*p_string_new_empty)(void);
static const char *(*p_string_str)(const c_tinyusd_string *);
static int (*p_string_free)(c_tinyusd_string *);
static c_tinyusd_token_vector *(*p_token_vector_new_empty)(void);
static size_t (*p_token_vector_size)(const c_tinyusd_token_vector *);
static const char *(*p_token_vector_str)(const c_tinyusd_token_vector *, size_t);
static int (*p_token_vector_free)(c_tinyusd_token_vector *);
static int (*p_detect_format)(const char *);
static int (*p_is_usd_file)(const char *);
static int (*p_is_usd_memory)(const uint8_t *, size_t);

#define SYM(v, s) if ((*(void **)&v = dlsym(h, s)) == NULL) return 0;

static int load_procs(void *h) {
	SYM(p_stage_new, "c_tinyusd_stage_new")
	SYM(p_stage_free, "c_tinyusd_stage_free")
	SYM(p_load_usd_from_file, "c_tinyusd_load_usd_from_file")
	SYM(p_stage_to_string, "c_tinyusd_stage_to_string")
	SYM(p_stage_traverse, "c_tinyusd_stage_traverse")
	SYM(p_prim_type, "c_tinyusd_prim_type")
	SYM(p_prim_element_name, "c_tinyusd_prim_element_name")
	SYM(p_prim_num_children, "c_tinyusd_prim_num_children")
	SYM(p_prim_get_child, "c_tinyusd_prim_get_child")
	SYM(p_prim_get_property_names, "c_tinyusd_prim_get_property_names")
	SYM(p_prim_to_string, "c_tinyusd_prim_to_string")
	SYM(p_string_new_empty, "c_tinyusd_string_new_empty")
	SYM(p_string_str, "c_tinyusd_string_str")
	SYM(p_string_free, "c_tinyusd_string_free")
	SYM(p_token_vector_new_empty, "c_tinyusd_token_vector_new_empty")
	SYM(p_token_vector_size, "c_tinyusd_token_vector_size")
	SYM(p_token_vector_str, "c_tinyusd_token_vector_str")
	SYM(p_token_vector_free, "c_tinyusd_token_vector_free")
	SYM(p_detect_format, "c_tinyusd_detect_format")
	SYM(p_is_usd_file, "c_tinyusd_is_usd_file")
	SYM(p_is_usd_memory, "c_tinyusd_is_usd_memory")
	return 1;
}

// take copies the content of s and frees s.
static char *take(c_tinyusd_string *s) {
	char *r = NULL;
	if (s == NULL)
		return NULL;
	const char *p = p_string_str(s);
	if (p != NULL && *p != '\0')
		r = strdup(p);
	p_string_free(s);
	return r;
}

static uintptr_t stage_new(void) { return (uintptr_t)p_stage_new(); }

static int stage_free(uintptr_t stage) { return p_stage_free((CTinyUSDStage *)stage); }

static int load_file(const char *path, uintptr_t stage, char **warn, char **err) {
	c_tinyusd_string *w = p_string_new_empty();
	c_tinyusd_string *e = p_string_new_empty();
	int ok = p_load_usd_from_file(path, (CTinyUSDStage *)stage, w, e);
	*warn = take(w);
	*err = take(e);
	return ok;
}

static char *stage_string(uintptr_t stage) {
	c_tinyusd_string *s = p_string_new_empty();
	if (!p_stage_to_string((const CTinyUSDStage *)stage, s)) {
		p_string_free(s);
		return NULL;
	}
	return take(s);
}

static const CTinyUSDPrim **collected;
static size_t ncollected, ccollected;

static int collect(const CTinyUSDPrim *prim, const CTinyUSDPath *path) {
	(void)path;
	if (prim == NULL)
		return 1;
	if (ncollected == ccollected) {
		size_t n = ccollected ? 2 * ccollected : 64;
		const CTinyUSDPrim **p = realloc(collected, n * sizeof *p);
		if (p == NULL)
			return 0;
		collected = p;
		ccollected = n;
	}
	collected[ncollected++] = prim;
	return 1;
}

// traverse stores every prim of stage in collected.
// The callback has no user data, so calls must not
// overlap.
static int traverse(uintptr_t stage, char **err) {
	c_tinyusd_string *e = p_string_new_empty();
	ncollected = 0;
	int ok = p_stage_traverse((const CTinyUSDStage *)stage, collect, e);
	*err = take(e);
	return ok;
}

static size_t collected_len(void) { return ncollected; }

static uintptr_t collected_at(size_t i) { return (uintptr_t)collected[i]; }

static const char *prim_type(uintptr_t prim) { return p_prim_type((const CTinyUSDPrim *)prim); }

static const char *prim_name(uintptr_t prim) { return p_prim_element_name((const CTinyUSDPrim *)prim); }

static uint64_t prim_num_children(uintptr_t prim) { return p_prim_num_children((const CTinyUSDPrim *)prim); }

static uintptr_t prim_child(uintptr_t prim, uint64_t i) {
	const CTinyUSDPrim *c = NULL;
	if (!p_prim_get_child((const CTinyUSDPrim *)prim, i, &c))
		return 0;
	return (uintptr_t)c;
}

static uintptr_t prim_property_names(uintptr_t prim) {
	c_tinyusd_token_vector *v = p_token_vector_new_empty();
	if (!p_prim_get_property_names((const CTinyUSDPrim *)prim, v)) {
		p_token_vector_free(v);
		return 0;
	}
	return (uintptr_t)v;
}

static size_t tokens_len(uintptr_t v) { return p_token_vector_size((const c_tinyusd_token_vector *)v); }

static const char *tokens_at(uintptr_t v, size_t i) { return p_token_vector_str((const c_tinyusd_token_vector *)v, i); }

static void tokens_free(uintptr_t v) { p_token_vector_free((c_tinyusd_token_vector *)v); }

static char *prim_string(uintptr_t prim) {
	c_tinyusd_string *s = p_string_new_empty();
	if (!p_prim_to_string((const CTinyUSDPrim *)prim, s)) {
		p_string_free(s);
		return NULL;
	}
	return take(s);
}

static int detect_format(const char *path) { return p_detect_format(path); }

static int is_usd_file(const char *path) { return p_is_usd_file(path); }

static int is_usd_memory(const void *data, size_t n) { return p_is_usd_memory((const uint8_t *)data, n); }
*/
import "C"

import (
	"unsafe"

	"github.com/gviegas/usd/native"
)

// proc is responsible for loading and unloading the
// tinyusdz C library.
// The C side keeps global state, so the methods of proc
// must not be called concurrently.
type proc struct {
	h unsafe.Pointer
}

// open loads the shared object at path and fetches every
// symbol that the Library needs.
func (p *proc) open(path string) error {
	lib := C.CString(path)
	defer C.free(unsafe.Pointer(lib))
	h := C.dlopen(lib, C.RTLD_LAZY|C.RTLD_LOCAL)
	if h == nil {
		return native.ErrNotInstalled
	}
	if C.load_procs(h) == 0 {
		C.dlclose(h)
		return native.ErrNotInstalled
	}
	p.h = h
	return nil
}

// close unloads the library.
func (p *proc) close() {
	if p.h != nil {
		C.dlclose(p.h)
	}
	*p = proc{}
}

// goString converts a malloc'd C string and frees it.
func goString(s *C.char) string {
	if s == nil {
		return ""
	}
	defer C.free(unsafe.Pointer(s))
	return C.GoString(s)
}

func (p *proc) stageNew() uintptr { return uintptr(C.stage_new()) }

func (p *proc) stageFree(stage uintptr) bool { return C.stage_free(C.uintptr_t(stage)) != 0 }

func (p *proc) load(path string, stage uintptr) (ok bool, warn, err string) {
	s := C.CString(path)
	defer C.free(unsafe.Pointer(s))
	var w, e *C.char
	ok = C.load_file(s, C.uintptr_t(stage), &w, &e) != 0
	return ok, goString(w), goString(e)
}

func (p *proc) stageString(stage uintptr) (string, bool) {
	s := C.stage_string(C.uintptr_t(stage))
	if s == nil {
		return "", false
	}
	return goString(s), true
}

// traverse returns every prim of stage in native
// traversal order.
func (p *proc) traverse(stage uintptr) ([]uintptr, string, bool) {
	var e *C.char
	ok := C.traverse(C.uintptr_t(stage), &e) != 0
	n := int(C.collected_len())
	prims := make([]uintptr, n)
	for i := range prims {
		prims[i] = uintptr(C.collected_at(C.size_t(i)))
	}
	return prims, goString(e), ok
}

func (p *proc) primType(prim uintptr) string { return C.GoString(C.prim_type(C.uintptr_t(prim))) }

func (p *proc) primName(prim uintptr) string { return C.GoString(C.prim_name(C.uintptr_t(prim))) }

func (p *proc) primChildren(prim uintptr) ([]uintptr, bool) {
	n := uint64(C.prim_num_children(C.uintptr_t(prim)))
	cs := make([]uintptr, n)
	for i := range cs {
		if cs[i] = uintptr(C.prim_child(C.uintptr_t(prim), C.uint64_t(i))); cs[i] == 0 {
			return nil, false
		}
	}
	return cs, true
}

func (p *proc) primPropertyNames(prim uintptr) ([]string, bool) {
	v := C.prim_property_names(C.uintptr_t(prim))
	if v == 0 {
		return nil, false
	}
	defer C.tokens_free(v)
	names := make([]string, int(C.tokens_len(v)))
	for i := range names {
		names[i] = C.GoString(C.tokens_at(v, C.size_t(i)))
	}
	return names, true
}

func (p *proc) primString(prim uintptr) (string, bool) {
	s := C.prim_string(C.uintptr_t(prim))
	if s == nil {
		return "", false
	}
	return goString(s), true
}

// Values of CTinyUSDFormat.
const (
	cFormatUnknown = iota
	cFormatAuto
	cFormatUSDA
	cFormatUSDC
	cFormatUSDZ
)

func (p *proc) detectFormat(path string) native.Format {
	s := C.CString(path)
	defer C.free(unsafe.Pointer(s))
	switch C.detect_format(s) {
	case cFormatUSDA:
		return native.FormatUSDA
	case cFormatUSDC:
		return native.FormatUSDC
	case cFormatUSDZ:
		return native.FormatUSDZ
	}
	return native.FormatUnknown
}

func (p *proc) isUSDFile(path string) bool {
	s := C.CString(path)
	defer C.free(unsafe.Pointer(s))
	return C.is_usd_file(s) != 0
}

func (p *proc) isUSDMemory(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	return C.is_usd_memory(unsafe.Pointer(&data[0]), C.size_t(len(data))) != 0
}
