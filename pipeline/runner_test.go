package pipeline_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/afs"
	"github.com/viant/innerfix/classfile"
	"github.com/viant/innerfix/innerclass"
	"github.com/viant/innerfix/pipeline"
)

func classBytes(t *testing.T, name string, access uint16, outerField bool, existing ...classfile.InnerClass) []byte {
	class, err := classfile.New(name, "java/lang/Object", access)
	require.NoError(t, err)
	if outerField {
		require.NoError(t, class.AddField("this$0", "LA;", classfile.AccFinal|classfile.AccSynthetic))
	}
	if len(existing) > 0 {
		require.NoError(t, class.SetInnerClasses(existing))
	}
	return class.Encode()
}

func program(t *testing.T, existingOnA bool) map[string][]byte {
	var existing []classfile.InnerClass
	if existingOnA {
		existing = append(existing, classfile.InnerClass{Name: "A$Bar", OuterName: "A", SimpleName: "Bar", Access: classfile.AccStatic})
	}
	return map[string][]byte{
		"A.class":              classBytes(t, "A", classfile.AccPublic|classfile.AccSuper, false, existing...),
		"A$1.class":            classBytes(t, "A$1", classfile.AccSuper, false),
		"A$1Foo.class":         classBytes(t, "A$1Foo", classfile.AccSuper, true),
		"A$Bar.class":          classBytes(t, "A$Bar", classfile.AccSuper, false),
		"META-INF/MANIFEST.MF": []byte("Manifest-Version: 1.0\n"),
		"broken.class":         []byte{0xCA, 0xFE},
	}
}

func writeDir(t *testing.T, files map[string][]byte) string {
	root := t.TempDir()
	for name, data := range files {
		location := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(location), 0755))
		require.NoError(t, os.WriteFile(location, data, 0644))
	}
	return root
}

func innerClassesOf(t *testing.T, data []byte) []classfile.InnerClass {
	class, err := classfile.Decode(data)
	require.NoError(t, err)
	entries, err := class.InnerClasses()
	require.NoError(t, err)
	return entries
}

func TestRunner_Directory(t *testing.T) {
	tests := []struct {
		name         string
		existingOnA  bool
		wantModified int
		wantEntries  []classfile.InnerClass
	}{
		{
			name:         "stripped program is repaired",
			wantModified: 1,
			wantEntries: []classfile.InnerClass{
				{Name: "A$1", Access: classfile.AccStatic},
				{Name: "A$1Foo", SimpleName: "Foo"},
				{Name: "A$Bar", OuterName: "A", SimpleName: "Bar", Access: classfile.AccStatic},
			},
		},
		{
			name:        "existing records are left alone",
			existingOnA: true,
			wantEntries: []classfile.InnerClass{
				{Name: "A$Bar", OuterName: "A", SimpleName: "Bar", Access: classfile.AccStatic},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			files := program(t, tt.existingOnA)
			input := writeDir(t, files)
			output := t.TempDir()
			fs := afs.New()

			source, err := pipeline.NewSource(ctx, fs, input)
			require.NoError(t, err)
			runner := pipeline.NewRunner(source, pipeline.WithWorkers(2), pipeline.WithCacheSize(2))
			result, err := runner.Run(ctx, pipeline.NewSink(fs, output))
			require.NoError(t, err)

			assert.Equal(t, len(files), result.Files)
			assert.Equal(t, 4, result.Classes)
			assert.Equal(t, []string{"broken.class"}, result.Skipped)
			assert.Equal(t, tt.wantModified, result.Modified)
			assert.Equal(t, len(files)-tt.wantModified, result.Copied)

			for name, original := range files {
				data, err := os.ReadFile(filepath.Join(output, filepath.FromSlash(name)))
				require.NoError(t, err, name)
				if name == "A.class" {
					continue
				}
				assert.Equal(t, original, data, name)
			}
			data, err := os.ReadFile(filepath.Join(output, "A.class"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantEntries, innerClassesOf(t, data))

			if tt.wantModified == 0 {
				assert.Equal(t, files["A.class"], data)
				return
			}
			require.Len(t, result.Units, 1)
			unit := result.Units[0]
			assert.Equal(t, "A.class", unit.Path)
			assert.Equal(t, "A", unit.Name)
			assert.Len(t, unit.Injected, 3)
			inputHash, err := pipeline.Fingerprint(files["A.class"])
			require.NoError(t, err)
			outputHash, err := pipeline.Fingerprint(data)
			require.NoError(t, err)
			assert.Equal(t, inputHash, unit.InputHash)
			assert.Equal(t, outputHash, unit.OutputHash)
			assert.NotEqual(t, unit.InputHash, unit.OutputHash)
		})
	}
}

func TestRunner_MalformedInnerClasses(t *testing.T) {
	ctx := context.Background()
	class, err := classfile.New("Z", "java/lang/Object", classfile.AccPublic|classfile.AccSuper)
	require.NoError(t, err)
	require.NoError(t, class.SetInnerClasses([]classfile.InnerClass{{Name: "A$Bar", OuterName: "A", SimpleName: "Bar"}}))
	// count 1, entry bytes missing
	class.Attribute(classfile.InnerClassesAttribute).Info = []byte{0, 1}
	files := program(t, false)
	files["Z.class"] = class.Encode()

	input := writeDir(t, files)
	output := t.TempDir()
	fs := afs.New()
	source, err := pipeline.NewSource(ctx, fs, input)
	require.NoError(t, err)
	result, err := pipeline.NewRunner(source, pipeline.WithWorkers(2)).Run(ctx, pipeline.NewSink(fs, output))
	require.NoError(t, err)

	assert.Equal(t, 5, result.Classes)
	assert.Equal(t, []string{"Z.class", "broken.class"}, result.Skipped)
	assert.Equal(t, 1, result.Modified)
	for name, original := range files {
		data, err := os.ReadFile(filepath.Join(output, filepath.FromSlash(name)))
		require.NoError(t, err, name)
		if name != "A.class" {
			assert.Equal(t, original, data, name)
		}
	}
}

func TestRunner_Jar(t *testing.T) {
	ctx := context.Background()
	files := program(t, false)
	buffer := new(bytes.Buffer)
	writer := zip.NewWriter(buffer)
	for _, name := range []string{"A$Bar.class", "A.class", "A$1.class", "A$1Foo.class", "META-INF/MANIFEST.MF"} {
		entry, err := writer.Create(name)
		require.NoError(t, err)
		_, err = entry.Write(files[name])
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	dir := t.TempDir()
	input := filepath.Join(dir, "app.jar")
	output := filepath.Join(dir, "fixed.jar")
	require.NoError(t, os.WriteFile(input, buffer.Bytes(), 0644))

	fs := afs.New()
	source, err := pipeline.NewSource(ctx, fs, input)
	require.NoError(t, err)
	runner := pipeline.NewRunner(source, pipeline.WithCacheSize(0))
	result, err := runner.Run(ctx, pipeline.NewSink(fs, output))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Modified)
	assert.Empty(t, result.Skipped)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	contents := map[string][]byte{}
	for _, file := range reader.File {
		names = append(names, file.Name)
		rc, err := file.Open()
		require.NoError(t, err)
		contents[file.Name], err = io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
	}
	assert.Equal(t, []string{"META-INF/MANIFEST.MF", "A$1.class", "A$1Foo.class", "A$Bar.class", "A.class"}, names)
	assert.Len(t, innerClassesOf(t, contents["A.class"]), 3)
	assert.Equal(t, files["A$Bar.class"], contents["A$Bar.class"])
}

func TestRunner_JarEntryMetadata(t *testing.T) {
	ctx := context.Background()
	files := program(t, false)
	modified := time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)
	buffer := new(bytes.Buffer)
	writer := zip.NewWriter(buffer)
	_, err := writer.CreateHeader(&zip.FileHeader{Name: "META-INF/", Method: zip.Store, Modified: modified})
	require.NoError(t, err)
	for _, name := range []string{"META-INF/MANIFEST.MF", "A.class", "A$Bar.class"} {
		entry, err := writer.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Store, Modified: modified})
		require.NoError(t, err)
		_, err = entry.Write(files[name])
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	dir := t.TempDir()
	input := filepath.Join(dir, "app.jar")
	output := filepath.Join(dir, "fixed.jar")
	require.NoError(t, os.WriteFile(input, buffer.Bytes(), 0644))

	fs := afs.New()
	source, err := pipeline.NewSource(ctx, fs, input)
	require.NoError(t, err)
	result, err := pipeline.NewRunner(source).Run(ctx, pipeline.NewSink(fs, output))
	require.NoError(t, err)
	assert.Equal(t, 3, result.Files)
	assert.Equal(t, 1, result.Modified)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var names []string
	for _, file := range reader.File {
		names = append(names, file.Name)
		assert.Equal(t, zip.Store, file.Method, file.Name)
		assert.True(t, modified.Equal(file.Modified), file.Name)
	}
	assert.Equal(t, []string{"META-INF/", "META-INF/MANIFEST.MF", "A$Bar.class", "A.class"}, names)
}

func TestRunner_Index(t *testing.T) {
	ctx := context.Background()
	input := writeDir(t, program(t, false))
	source, err := pipeline.NewSource(ctx, afs.New(), input)
	require.NoError(t, err)
	types, err := pipeline.NewRunner(source).Index(ctx)
	require.NoError(t, err)
	assert.True(t, types.Sealed())
	assert.Equal(t, 4, types.Len())

	records := innerclass.Build(types).Lookup("A")
	require.Len(t, records, 3)
	assert.Equal(t, "A$1", records[0].Name)
	assert.Equal(t, "A$1Foo", records[1].Name)
	assert.Equal(t, "A$Bar", records[2].Name)
}

func TestInnerClassStage_NotSetUp(t *testing.T) {
	stage := pipeline.NewInnerClassStage(nil)
	class, err := classfile.New("A", "", 0)
	require.NoError(t, err)
	_, err = stage.Apply(context.Background(), &pipeline.Unit{Name: "A", Class: class})
	assert.Error(t, err)
	assert.Equal(t, "inner-classes", stage.Name())
}

func TestIsArchive(t *testing.T) {
	assert.True(t, pipeline.IsArchive("/tmp/app.jar"))
	assert.True(t, pipeline.IsArchive("/tmp/app.ZIP"))
	assert.False(t, pipeline.IsArchive("/tmp/classes"))
	assert.True(t, pipeline.IsClass("a/b/C.class"))
	assert.False(t, pipeline.IsClass("a/b/C.java"))
}
