package filesystem

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/madstone-tech/katnipc/internal/core/usecases"
)

// Ensure Packager implements usecases.ProjectWriter.
var _ usecases.ProjectWriter = (*Packager)(nil)

// Packager stages a CompileResult into a bundle directory, then archives
// it: project.json, one asset file per referenced costume/sound,
// log_<id>.txt, hierarchy_<id>.txt, hierarchy_<id>.toon, diagram_<id>.d2.
type Packager struct {
	Encoder usecases.OutputEncoder
	Diagram usecases.DiagramGenerator
	Logger  usecases.Logger
}

// NewPackager returns a Packager ready to stage and archive bundles.
func NewPackager(encoder usecases.OutputEncoder, gen usecases.DiagramGenerator, logger usecases.Logger) *Packager {
	return &Packager{Encoder: encoder, Diagram: gen, Logger: logger}
}

// Write stages outDir/<id>/ with the bundle's contents and zips it to
// outDir/<id>.zip, returning the archive path.
func (p *Packager) Write(ctx context.Context, result *usecases.CompileResult, outDir, id string) (string, error) {
	stageDir := filepath.Join(outDir, id)
	if err := os.MkdirAll(stageDir, 0o755); err != nil {
		return "", fmt.Errorf("creating stage directory: %w", err)
	}

	if err := p.writeProjectJSON(result, stageDir); err != nil {
		return "", err
	}
	if err := p.writeAssets(result, stageDir); err != nil {
		return "", err
	}
	if err := p.writeLog(result, stageDir, id); err != nil {
		return "", err
	}
	if err := p.writeHierarchyTxt(result, stageDir, id); err != nil {
		return "", err
	}
	if err := p.writeHierarchyToon(result, stageDir, id); err != nil {
		return "", err
	}
	if err := p.writeDiagram(result, stageDir, id); err != nil {
		return "", err
	}

	archivePath := filepath.Join(outDir, id+".zip")
	if err := zipDirectory(stageDir, archivePath); err != nil {
		return "", fmt.Errorf("archiving bundle: %w", err)
	}
	return archivePath, nil
}

func (p *Packager) writeProjectJSON(result *usecases.CompileResult, stageDir string) error {
	data, err := p.Encoder.EncodeJSON(result.Project)
	if err != nil {
		return fmt.Errorf("encoding project.json: %w", err)
	}
	return os.WriteFile(filepath.Join(stageDir, "project.json"), data, 0o644)
}

func (p *Packager) writeAssets(result *usecases.CompileResult, stageDir string) error {
	for _, target := range result.Project.Targets {
		for _, asset := range target.Costumes {
			if err := writeAssetFile(stageDir, asset.MD5Ext, asset.Bytes); err != nil {
				return err
			}
		}
		for _, asset := range target.Sounds {
			if err := writeAssetFile(stageDir, asset.MD5Ext, asset.Bytes); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeAssetFile(stageDir, md5ext string, data []byte) error {
	if md5ext == "" {
		return nil
	}
	return os.WriteFile(filepath.Join(stageDir, md5ext), data, 0o644)
}

func (p *Packager) writeLog(result *usecases.CompileResult, stageDir, id string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "katnipc build %s\n", id)
	fmt.Fprintf(&sb, "sprites compiled: %d\n", result.Stats.SpritesCompiled)
	fmt.Fprintf(&sb, "blocks emitted: %d\n", result.Stats.BlocksEmitted)
	fmt.Fprintf(&sb, "duration: %s\n", result.Stats.Duration)
	return os.WriteFile(filepath.Join(stageDir, "log_"+id+".txt"), []byte(sb.String()), 0o644)
}

func (p *Packager) writeHierarchyTxt(result *usecases.CompileResult, stageDir, id string) error {
	var sb strings.Builder
	for _, target := range result.Project.Targets {
		sb.WriteString(GenerateASCIIHierarchy(target))
	}
	return os.WriteFile(filepath.Join(stageDir, "hierarchy_"+id+".txt"), []byte(sb.String()), 0o644)
}

func (p *Packager) writeHierarchyToon(result *usecases.CompileResult, stageDir, id string) error {
	dump := BuildHierarchyDump(result.Project.Targets)
	data, err := p.Encoder.EncodeTOON(dump)
	if err != nil {
		return fmt.Errorf("encoding hierarchy TOON: %w", err)
	}
	return os.WriteFile(filepath.Join(stageDir, "hierarchy_"+id+".toon"), data, 0o644)
}

func (p *Packager) writeDiagram(result *usecases.CompileResult, stageDir, id string) error {
	if p.Diagram == nil {
		return nil
	}
	var sb strings.Builder
	for _, target := range result.Project.Targets {
		source, err := p.Diagram.GenerateBlockGraph(target)
		if err != nil {
			if p.Logger != nil {
				p.Logger.Warn("skipping diagram for target", "target", target.Name, "error", err.Error())
			}
			continue
		}
		sb.WriteString(source)
		sb.WriteString("\n")
	}
	return os.WriteFile(filepath.Join(stageDir, "diagram_"+id+".d2"), []byte(sb.String()), 0o644)
}

func zipDirectory(srcDir, destPath string) error {
	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("creating archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	defer zw.Close()

	return filepath.Walk(srcDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate
		header.Modified = time.Now()

		writer, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		_, err = io.Copy(writer, f)
		return err
	})
}
