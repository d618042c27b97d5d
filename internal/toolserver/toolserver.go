// Package toolserver exposes the editing vocabulary over the Model
// Context Protocol so a tool-calling agent can drive a session. Every
// tool returns a human-readable status string, including for routine
// failures (missing file, conflicting path), because the consumer
// narrates outcomes rather than branching on error codes.
package toolserver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/preview-labs/prevu/internal/session"
	"github.com/preview-labs/prevu/internal/store"
	"github.com/preview-labs/prevu/internal/vfs"
)

// ToolServer bridges MCP tool calls onto one session. When a store and
// project name are set, every successful mutation persists the snapshot.
type ToolServer struct {
	sess    *session.Session
	store   *store.Store
	project string
	mcp     *server.MCPServer
}

func New(sess *session.Session, version string) *ToolServer {
	ts := &ToolServer{
		sess: sess,
		mcp: server.NewMCPServer("prevu", version,
			server.WithToolCapabilities(false),
		),
	}
	ts.registerTools()
	return ts
}

// WithStore enables snapshot persistence after each mutation.
func (ts *ToolServer) WithStore(s *store.Store, project string) *ToolServer {
	ts.store = s
	ts.project = project
	return ts
}

// ServeStdio blocks serving the MCP protocol on stdin/stdout.
func (ts *ToolServer) ServeStdio() error {
	return server.ServeStdio(ts.mcp)
}

func (ts *ToolServer) registerTools() {
	ts.mcp.AddTool(mcp.NewTool("write_file",
		mcp.WithDescription("Create or overwrite a file, creating parent directories as needed."),
		mcp.WithString("path", mcp.Required(), mcp.Description("Absolute project path, e.g. /App.jsx")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Full file content")),
	), ts.writeFile)

	ts.mcp.AddTool(mcp.NewTool("replace_in_file",
		mcp.WithDescription("Replace every occurrence of a string in a file."),
		mcp.WithString("path", mcp.Required()),
		mcp.WithString("search", mcp.Required()),
		mcp.WithString("replace", mcp.Required()),
	), ts.replaceInFile)

	ts.mcp.AddTool(mcp.NewTool("insert_lines",
		mcp.WithDescription("Insert text before the given 1-based line of a file."),
		mcp.WithString("path", mcp.Required()),
		mcp.WithNumber("line", mcp.Required(), mcp.Description("1-based line number; one past the last line appends")),
		mcp.WithString("text", mcp.Required()),
	), ts.insertLines)

	ts.mcp.AddTool(mcp.NewTool("rename_path",
		mcp.WithDescription("Rename or move a file or directory."),
		mcp.WithString("old_path", mcp.Required()),
		mcp.WithString("new_path", mcp.Required()),
	), ts.renamePath)

	ts.mcp.AddTool(mcp.NewTool("delete_path",
		mcp.WithDescription("Delete a file, or a directory and everything under it."),
		mcp.WithString("path", mcp.Required()),
	), ts.deletePath)

	ts.mcp.AddTool(mcp.NewTool("read_file",
		mcp.WithDescription("Read a file's current content."),
		mcp.WithString("path", mcp.Required()),
	), ts.readFile)

	ts.mcp.AddTool(mcp.NewTool("list_files",
		mcp.WithDescription("List every file in the project."),
	), ts.listFiles)

	ts.mcp.AddTool(mcp.NewTool("set_entry",
		mcp.WithDescription("Pin the preview entry point to an existing source file."),
		mcp.WithString("path", mcp.Required()),
	), ts.setEntry)

	ts.mcp.AddTool(mcp.NewTool("preview_status",
		mcp.WithDescription("Report the entry point, file count, and any syntax errors blocking the preview."),
	), ts.previewStatus)

	ts.mcp.AddTool(mcp.NewTool("reset_project",
		mcp.WithDescription("Discard every file and start over."),
	), ts.resetProject)
}

// --- tool handlers ---

func (ts *ToolServer) writeFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content := req.GetString("content", "")

	err = ts.sess.Do(func(fs *vfs.FS) error {
		return fs.CreateFileWithParents(path, content)
	})
	if err != nil {
		return text("Could not write %s: %v", path, err), nil
	}
	ts.persist()
	return text("Wrote %s (%d bytes).", path, len(content)), nil
}

func (ts *ToolServer) replaceInFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	search := req.GetString("search", "")
	replace := req.GetString("replace", "")

	var count int
	err = ts.sess.Do(func(fs *vfs.FS) error {
		n, err := fs.ReplaceInFile(path, search, replace)
		count = n
		return err
	})
	if err != nil {
		return text("Replace in %s failed: %v", path, err), nil
	}
	ts.persist()
	return text("Replaced %d occurrence(s) in %s.", count, path), nil
}

func (ts *ToolServer) insertLines(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	line, err := req.RequireInt("line")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	textArg := req.GetString("text", "")

	err = ts.sess.Do(func(fs *vfs.FS) error {
		return fs.InsertLines(path, line, textArg)
	})
	if err != nil {
		return text("Insert into %s failed: %v", path, err), nil
	}
	ts.persist()
	return text("Inserted at line %d of %s.", line, path), nil
}

func (ts *ToolServer) renamePath(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	oldPath, err := req.RequireString("old_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	newPath, err := req.RequireString("new_path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var moved bool
	err = ts.sess.Do(func(fs *vfs.FS) error {
		ok, err := fs.Rename(oldPath, newPath)
		moved = ok
		return err
	})
	if err != nil {
		return text("Rename failed: %v", err), nil
	}
	if !moved {
		return text("Could not rename %s to %s: source missing, destination exists, or path is the root.", oldPath, newPath), nil
	}
	ts.persist()
	return text("Renamed %s to %s.", oldPath, newPath), nil
}

func (ts *ToolServer) deletePath(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var removed bool
	_ = ts.sess.Do(func(fs *vfs.FS) error {
		removed = fs.Delete(path)
		return nil
	})
	if !removed {
		return text("Nothing deleted: %s does not exist (or is the root).", path), nil
	}
	ts.persist()
	return text("Deleted %s.", path), nil
}

func (ts *ToolServer) readFile(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var content string
	var found bool
	_ = ts.sess.Do(func(fs *vfs.FS) error {
		content, found = fs.ReadFile(path)
		return nil
	})
	if !found {
		return text("%s does not exist or is a directory.", path), nil
	}
	return mcp.NewToolResultText(content), nil
}

func (ts *ToolServer) listFiles(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var paths []string
	_ = ts.sess.Do(func(fs *vfs.FS) error {
		for p := range fs.AllFiles() {
			paths = append(paths, p)
		}
		return nil
	})
	if len(paths) == 0 {
		return mcp.NewToolResultText("The project is empty."), nil
	}
	sort.Strings(paths)
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (ts *ToolServer) setEntry(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ts.sess.SetEntry(path) {
		return text("Cannot set entry to %s: file missing or not a component source.", path), nil
	}
	ts.persist()
	return text("Entry point is now %s.", path), nil
}

func (ts *ToolServer) previewStatus(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := ts.sess.Describe()
	var sb strings.Builder
	fmt.Fprintf(&sb, "Files: %d. Epoch: %d.", st.FileCount, st.Epoch)
	if st.Entry != "" {
		fmt.Fprintf(&sb, " Entry: %s.", st.Entry)
	} else {
		sb.WriteString(" No entry point (project empty).")
	}
	if len(st.Errors) > 0 {
		sb.WriteString("\nSyntax errors blocking the preview:")
		for _, e := range st.Errors {
			sb.WriteString("\n  " + e)
		}
	} else {
		sb.WriteString("\nPreview is rendering cleanly.")
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func (ts *ToolServer) resetProject(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ts.sess.Reset()
	ts.persist()
	return mcp.NewToolResultText("Project reset to an empty tree."), nil
}

// persist saves the current snapshot when a store is configured.
// Persistence failures are swallowed: the in-memory session stays
// authoritative and the next mutation retries.
func (ts *ToolServer) persist() {
	if ts.store == nil {
		return
	}
	_ = ts.store.Save(ts.project, ts.sess.Entry(), ts.sess.Snapshot())
}

func text(format string, args ...interface{}) *mcp.CallToolResult {
	return mcp.NewToolResultText(fmt.Sprintf(format, args...))
}
