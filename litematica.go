// Package schem loads, represents, and saves Minecraft Litematica
// (.litematic) schematic files.
package schem

import (
	"fmt"
	"io"
	"os"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/gzip"
)

const defaultLitematicaVersion = int32(6)

// FromLitematicaFile opens and decodes a .litematic file at path.
func FromLitematicaFile(path string, opts LoadOptions) (*Schematic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &FileOpenError{Err: err}
	}
	defer f.Close()
	return FromLitematica(f, opts)
}

// FromLitematica decodes a gzip-wrapped Litematica NBT stream.
func FromLitematica(r io.Reader, opts LoadOptions) (*Schematic, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, &NBTReadError{Err: err}
	}
	defer gz.Close()

	var root map[string]any
	if _, err := nbt.NewDecoder(gz).Decode(&root); err != nil {
		return nil, &NBTReadError{Err: err}
	}
	return parseSchematic(root, opts)
}

// SaveLitematicaFile encodes s and writes it, gzip-compressed, to path.
func (s *Schematic) SaveLitematicaFile(path string, opts SaveOptions) error {
	tree, err := s.ToNBTLitematica(opts)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return &FileCreateError{Err: err}
	}

	gz, err := gzip.NewWriterLevel(f, gzip.BestCompression)
	if err != nil {
		f.Close()
		return &NBTWriteError{Err: err}
	}
	if err := nbt.NewEncoder(gz).Encode(tree, ""); err != nil {
		gz.Close()
		f.Close()
		return &NBTWriteError{Err: err}
	}
	if err := gz.Close(); err != nil {
		f.Close()
		return &NBTWriteError{Err: err}
	}
	return f.Close()
}

// --- tag-path-qualified decode helpers -------------------------------------

func getCompound(parent map[string]any, key, path string) (map[string]any, error) {
	v, ok := parent[key]
	if !ok {
		return nil, &TagMissing{TagPath: path}
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, &TagTypeMismatch{TagPath: path, ExpectedType: TagCompound, FoundType: tagOf(v)}
	}
	return m, nil
}

func getOptCompound(parent map[string]any, key, path string) (map[string]any, bool, error) {
	v, ok := parent[key]
	if !ok {
		return nil, false, nil
	}
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false, &TagTypeMismatch{TagPath: path, ExpectedType: TagCompound, FoundType: tagOf(v)}
	}
	return m, true, nil
}

func getInt(parent map[string]any, key, path string) (int32, error) {
	v, ok := parent[key]
	if !ok {
		return 0, &TagMissing{TagPath: path}
	}
	i, ok := v.(int32)
	if !ok {
		return 0, &TagTypeMismatch{TagPath: path, ExpectedType: TagInt, FoundType: tagOf(v)}
	}
	return i, nil
}

func getOptInt(parent map[string]any, key, path string) (int32, bool, error) {
	v, ok := parent[key]
	if !ok {
		return 0, false, nil
	}
	i, ok := v.(int32)
	if !ok {
		return 0, false, &TagTypeMismatch{TagPath: path, ExpectedType: TagInt, FoundType: tagOf(v)}
	}
	return i, true, nil
}

func getLong(parent map[string]any, key, path string) (int64, error) {
	v, ok := parent[key]
	if !ok {
		return 0, &TagMissing{TagPath: path}
	}
	i, ok := v.(int64)
	if !ok {
		return 0, &TagTypeMismatch{TagPath: path, ExpectedType: TagLong, FoundType: tagOf(v)}
	}
	return i, nil
}

func getOptLong(parent map[string]any, key, path string, def int64) int64 {
	v, ok := parent[key]
	if !ok {
		return def
	}
	if i, ok := v.(int64); ok {
		return i
	}
	return def
}

func getString(parent map[string]any, key, path string) (string, error) {
	v, ok := parent[key]
	if !ok {
		return "", &TagMissing{TagPath: path}
	}
	s, ok := v.(string)
	if !ok {
		return "", &TagTypeMismatch{TagPath: path, ExpectedType: TagString, FoundType: tagOf(v)}
	}
	return s, nil
}

func getOptString(parent map[string]any, key, path, def string) string {
	v, ok := parent[key]
	if !ok {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return def
}

func getList(parent map[string]any, key, path string) ([]any, error) {
	v, ok := parent[key]
	if !ok {
		return nil, &TagMissing{TagPath: path}
	}
	l, ok := v.([]any)
	if !ok {
		// go-mc/nbt decodes an empty List as nil of the declared
		// element type, not []any; treat a nil (empty) list as empty.
		// A list that is absent altogether is TagMissing (above).
		if v == nil {
			return nil, nil
		}
		return nil, &TagTypeMismatch{TagPath: path, ExpectedType: TagList, FoundType: tagOf(v)}
	}
	return l, nil
}

func getLongArray(parent map[string]any, key, path string) ([]int64, error) {
	v, ok := parent[key]
	if !ok {
		return nil, &TagMissing{TagPath: path}
	}
	a, ok := v.([]int64)
	if !ok {
		return nil, &TagTypeMismatch{TagPath: path, ExpectedType: TagLongArray, FoundType: tagOf(v)}
	}
	return a, nil
}

// parseSizeCompound reads a Compound{x,y,z:Int} triple.
func parseSizeCompound(m map[string]any, path string, allowNegative bool) ([3]int32, error) {
	var out [3]int32
	for i, axis := range [3]string{"x", "y", "z"} {
		v, err := getInt(m, axis, path+"/"+axis)
		if err != nil {
			return out, err
		}
		if !allowNegative && v < 0 {
			return out, &InvalidValue{TagPath: path, Detail: fmt.Sprintf("%s must be >= 0, found %d", axis, v)}
		}
		out[i] = v
	}
	return out, nil
}

func sizeCompound(v [3]int32) map[string]any {
	return map[string]any{"x": v[0], "y": v[1], "z": v[2]}
}
