package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/John-Robertt/scexport/internal/provider/senscritique"
)

const (
	// ErrCodeInvalid 表示配置文件/.env 无法读取或解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	// DefaultUsername 是 CLI 与配置都未指定用户名时的示例值。
	DefaultUsername = "migoo"
	// DefaultOutput 是默认输出文件名（相对 cwd）。
	DefaultOutput = "senscritique_movies.csv"

	// PageSize / PageDelay 是固定值，不对外暴露配置。
	PageSize  = 50
	PageDelay = 300 * time.Millisecond

	// FileName 是 cwd 下可选的 JSON 配置文件。
	FileName = "scexport.json"
	// DotEnvName 是 cwd 下可选的 .env 文件。
	DotEnvName = ".env"
)

// 环境变量名（可写在 .env 中）。
const (
	EnvUsername = "SCEXPORT_USERNAME"
	EnvOutput   = "SCEXPORT_OUTPUT"
	EnvEndpoint = "SCEXPORT_ENDPOINT"
)

// CLIArgs 保留“是否显式指定”的信息，确保覆盖优先级可实现。
type CLIArgs struct {
	Username    string
	UsernameSet bool

	Output    string
	OutputSet bool

	Endpoint    string
	EndpointSet bool
}

// FileConfig 对应 scexport.json 的解析结构。
type FileConfig struct {
	Username string `json:"username"`
	Output   string `json:"output"`
	Endpoint string `json:"endpoint"`
}

// EffectiveConfig 是合并并做最小规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	Username string
	Output   string // clean + absolute
	Endpoint string

	Universe  string
	PageSize  int
	PageDelay time.Duration
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s：配置 %q 无效：%v", e.Code, e.Path, e.Err)
		}
		return fmt.Sprintf("%s：配置 %q 无效", e.Code, e.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s：%v", e.Code, e.Err)
	}
	return e.Code
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 读取可选的 <cwd>/scexport.json 与 <cwd>/.env，然后与 CLI 参数合并为最终配置。
//
// 覆盖优先级（固定）：CLI > 进程环境变量 > .env > scexport.json > 内置默认。
// lookupEnv 为 nil 时使用 os.LookupEnv。
func LoadEffective(cwd string, cli CLIArgs, lookupEnv func(string) (string, bool)) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}

	cfgPath := filepath.Join(cwdAbs, FileName)
	fc, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	envPath := filepath.Join(cwdAbs, DotEnvName)
	dotenv, err := readDotEnv(envPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: envPath, Err: err}
	}
	env := func(key string) string {
		if v, ok := lookupEnv(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(dotenv[key])
	}

	username := pick(cli.UsernameSet, cli.Username, env(EnvUsername), fc.Username, DefaultUsername)
	if username == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Err: fmt.Errorf("username 不能为空")}
	}

	output := pick(cli.OutputSet, cli.Output, env(EnvOutput), fc.Output, DefaultOutput)
	if output == "" {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Err: fmt.Errorf("输出路径不能为空")}
	}

	endpoint := pick(cli.EndpointSet, cli.Endpoint, env(EnvEndpoint), fc.Endpoint, senscritique.DefaultEndpoint)
	if err := validateEndpoint(endpoint); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Err: err}
	}

	return EffectiveConfig{
		Username:  username,
		Output:    absCleanFrom(cwdAbs, output),
		Endpoint:  endpoint,
		Universe:  senscritique.UniverseMovie,
		PageSize:  PageSize,
		PageDelay: PageDelay,
	}, nil
}

// pick 按优先级取第一个非空值；CLI 显式指定时即使为空也生效（交给校验报错）。
func pick(cliSet bool, cli string, rest ...string) string {
	if cliSet {
		return strings.TrimSpace(cli)
	}
	for _, v := range rest {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func validateEndpoint(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("endpoint 无效：%q", raw)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("endpoint 必须是 http/https：%q", raw)
	}
	return nil
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute。
func absCleanFrom(base, p string) string {
	p = filepath.Clean(strings.TrimSpace(p))
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}

// readFileConfig 读取并解析 JSON 配置文件；文件不存在不算错误。
func readFileConfig(path string) (FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, err
	}
	var fc FileConfig
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, err
	}
	return fc, nil
}

// readDotEnv 只读取 .env 内容，不修改进程环境变量；文件不存在不算错误。
func readDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return godotenv.Read(path)
}
