package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/John-Robertt/scexport/internal/app/export"
	"github.com/John-Robertt/scexport/internal/config"
	"github.com/John-Robertt/scexport/internal/domain"
	"github.com/John-Robertt/scexport/internal/infra/httpx"
	"github.com/John-Robertt/scexport/internal/logger"
	"github.com/John-Robertt/scexport/internal/provider/senscritique"
)

// 退出码（对外契约）。
const (
	exitOK      = 0
	exitFatal   = 1 // 配置错误 / 写盘失败
	exitUsage   = 2
	exitEmpty   = 3 // 没有可导出的记录，未写文件
	exitPartial = 4 // 分页中途失败，已写出部分记录
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 || isHelp(args[0]) {
		printUsage(os.Stdout)
		return
	}

	switch args[0] {
	case "export":
		cwd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "读取当前目录失败：%v\n", err)
			os.Exit(exitFatal)
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		code := runExport(ctx, args[1:], cwd, os.Stdout, os.Stderr)
		stop()
		if code != exitOK {
			os.Exit(code)
		}
	default:
		fmt.Fprintf(os.Stderr, "未知命令：%q\n\n", args[0])
		printUsage(os.Stderr)
		os.Exit(exitUsage)
	}
}

func runExport(ctx context.Context, args []string, cwd string, stdout, stderr io.Writer) int {
	for _, a := range args {
		if isHelp(a) {
			printExportUsage(stdout)
			return exitOK
		}
	}

	ea, err := parseExportArgs(args)
	if err != nil {
		fmt.Fprintf(stderr, "参数错误：%v\n\n", err)
		printExportUsage(stderr)
		return exitUsage
	}

	eff, err := config.LoadEffective(cwd, config.CLIArgs{
		Username:    ea.Username,
		UsernameSet: ea.UsernameSet,
		Output:      ea.Output,
		OutputSet:   ea.OutputSet,
		Endpoint:    ea.Endpoint,
		EndpointSet: ea.EndpointSet,
	}, nil)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		if ea.JSON {
			// --json 契约：即使配置失败，stdout 也输出一个 ExportReport。
			_ = writeReport(stdout, reportForConfigError(ea, err))
		}
		return exitFatal
	}

	runID := uuid.NewString()
	log := logger.WithRun(logger.Setup(stderr, ea.Verbose), runID)

	// --json：stdout 必须且仅输出一个 ExportReport JSON（进度/提示走 stderr）。
	consoleW := stdout
	if ea.JSON {
		consoleW = stderr
	}
	ui := newProgressUI(consoleW, isTTY(consoleW))
	ui.Banner()

	client := senscritique.NewClient(httpx.NewClient(), log, eff.Endpoint, senscritique.DefaultQuery())
	rr := export.New(client, log, ui).Export(ctx, eff, runID)
	ui.Finish(rr)

	if ea.JSON {
		if err := writeReport(stdout, rr); err != nil {
			fmt.Fprintf(stderr, "写出 report 失败：%v\n", err)
			return exitFatal
		}
	}
	return exitCode(rr)
}

func writeReport(w io.Writer, rr domain.ExportReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rr)
}

func reportForConfigError(ea exportArgs, err error) domain.ExportReport {
	now := time.Now().UTC()
	rr := domain.ExportReport{
		Username:   ea.Username,
		Output:     ea.Output,
		StartedAt:  now,
		FinishedAt: now,
		ErrorCode:  config.Code(err),
		ErrorMsg:   err.Error(),
	}
	rr.Finalize()
	return rr
}

func exitCode(rr domain.ExportReport) int {
	switch {
	case rr.WriteError != "":
		return exitFatal
	case rr.Status == domain.StatusEmpty:
		return exitEmpty
	case rr.Status == domain.StatusPartial:
		return exitPartial
	default:
		return exitOK
	}
}

type exportArgs struct {
	Username    string
	UsernameSet bool
	Output      string
	OutputSet   bool
	Endpoint    string
	EndpointSet bool

	JSON    bool
	Verbose bool
}

func parseExportArgs(args []string) (exportArgs, error) {
	ea := exportArgs{}
	positional := 0

	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--endpoint":
			if i+1 >= len(args) {
				return exportArgs{}, fmt.Errorf("--endpoint 需要一个值")
			}
			i++
			ea.Endpoint = args[i]
			ea.EndpointSet = true
		case strings.HasPrefix(a, "--endpoint="):
			ea.Endpoint = strings.TrimPrefix(a, "--endpoint=")
			ea.EndpointSet = true
		case a == "--json":
			ea.JSON = true
		case a == "-v" || a == "--verbose":
			ea.Verbose = true
		case strings.HasPrefix(a, "-"):
			return exportArgs{}, fmt.Errorf("未知参数 %q", a)
		default:
			switch positional {
			case 0:
				ea.Username = a
				ea.UsernameSet = true
			case 1:
				ea.Output = a
				ea.OutputSet = true
			default:
				return exportArgs{}, fmt.Errorf("多余的参数：%q", a)
			}
			positional++
		}
	}

	if ea.EndpointSet && strings.TrimSpace(ea.Endpoint) == "" {
		return exportArgs{}, fmt.Errorf("--endpoint 不能为空")
	}
	return ea, nil
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help" || s == "help"
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `用法：
  scexport export [username] [outputPath] [--endpoint URL] [--json] [-v]

命令：
  export    导出 SensCritique 用户已评分的电影为 CSV

使用 "scexport export --help" 查看详细说明。
`)
}

func printExportUsage(w io.Writer) {
	fmt.Fprint(w, `用法：
  scexport export [username] [outputPath] [--endpoint URL] [--json] [-v]

参数：
  username      SensCritique 用户名（默认 migoo，或 SCEXPORT_USERNAME / scexport.json）
  outputPath    输出 CSV 路径（默认 senscritique_movies.csv）
  --endpoint    GraphQL 端点（默认 https://apollo.senscritique.com/）
  --json        stdout 只输出 ExportReport JSON（进度改写到 stderr）
  -v, --verbose 输出请求/分页调试日志到 stderr
  -h, --help    显示帮助

退出码：
  0 全部导出  1 配置错误/写盘失败  2 参数错误  3 没有可导出的记录  4 中途失败（已写出部分记录）
`)
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
