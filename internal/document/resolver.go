package document

import (
	"fmt"

	"k8s.io/klog/v2"

	"github.com/Tommy-Geenexus/exif-eraser-sub000/pkg/imgutil"
)

// Resolver turns opaque selection references into concrete I/O targets and
// decides where sanitized output goes.
type Resolver struct {
	store   Store
	staging *Staging
}

// NewResolver wires a Resolver over a document store and staging area.
func NewResolver(store Store, staging *Staging) *Resolver {
	return &Resolver{store: store, staging: staging}
}

// Store exposes the underlying document store for stream access.
func (r *Resolver) Store() Store {
	return r.store
}

// DisplayNameAndMime resolves a document's display name and mime type.
func (r *Resolver) DisplayNameAndMime(uri string) (Info, error) {
	info, err := r.store.Query(uri)
	if err != nil {
		return Info{}, fmt.Errorf("%w: %s: %v", ErrResolutionFailure, uri, err)
	}
	if info.DisplayName == "" {
		return Info{}, fmt.Errorf("%w: %s: no display name", ErrResolutionFailure, uri)
	}
	return info, nil
}

// Children enumerates a tree's supported image documents, in stable order.
func (r *Resolver) Children(treeURI string) ([]string, error) {
	children, err := r.store.ListChildren(treeURI)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrResolutionFailure, treeURI, err)
	}

	var supported []string
	for _, child := range children {
		if imgutil.KindForMimeType(r.store.MimeType(child)) != imgutil.KindUnknown {
			supported = append(supported, child)
		}
	}

	if len(supported) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyDirectory, treeURI)
	}
	return supported, nil
}

// IsStaged reports whether uri lives in the cache staging area. Staged
// documents never count as tree-backed.
func (r *Resolver) IsStaged(uri string) bool {
	return r.staging.Contains(uri)
}

// CreateDestination picks where the sanitized copy of srcURI goes:
// a sibling inside the default destination tree when one is supplied and the
// source is not cache-staged, else the source's own writable parent, else a
// derived document in the cache staging area.
func (r *Resolver) CreateDestination(srcURI, defaultTreeURI, displayName, mimeType string) (string, error) {
	if defaultTreeURI != "" && !r.IsStaged(srcURI) && r.store.IsTree(defaultTreeURI) {
		uri, err := r.store.CreateDocument(defaultTreeURI, mimeType, displayName)
		if err == nil {
			return uri, nil
		}
		klog.V(1).Infof("default tree rejected %s: %v", displayName, err)
	}

	if parent, err := r.store.Parent(srcURI); err == nil {
		uri, err := r.store.CreateDocument(parent, mimeType, displayName)
		if err == nil {
			return uri, nil
		}
		klog.V(1).Infof("parent of %s rejected %s: %v", srcURI, displayName, err)
	}

	uri, err := r.staging.CreateDerived(r.store, mimeType, displayName)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDestinationUnresolved, srcURI, err)
	}
	return uri, nil
}

// DeleteOriginal removes a source document after a successful sanitized
// write. Best-effort: failures are logged, never propagated, so auto-delete
// can never block a batch.
func (r *Resolver) DeleteOriginal(uri string) bool {
	if err := r.store.Delete(uri); err != nil {
		klog.Warningf("unable to delete original %s: %v", uri, err)
		return false
	}
	return true
}
