package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/John-Robertt/scexport/internal/provider/senscritique"
)

func noEnv(string) (string, bool) { return "", false }

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoadEffective_Defaults(t *testing.T) {
	cwd := t.TempDir()

	eff, err := LoadEffective(cwd, CLIArgs{}, noEnv)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Username != DefaultUsername {
		t.Fatalf("期望默认用户名 %q，实际 %q", DefaultUsername, eff.Username)
	}
	if want := filepath.Join(cwd, DefaultOutput); eff.Output != want {
		t.Fatalf("期望 output=%q，实际 %q", want, eff.Output)
	}
	if eff.Endpoint != senscritique.DefaultEndpoint {
		t.Fatalf("期望默认端点，实际 %q", eff.Endpoint)
	}
	if eff.Universe != "movie" || eff.PageSize != 50 || eff.PageDelay != PageDelay {
		t.Fatalf("固定参数不正确：%+v", eff)
	}
}

func TestLoadEffective_MergeOrder(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`{"username":"file-user","output":"file.csv","endpoint":"http://file.test/"}`))
	writeFile(t, filepath.Join(cwd, DotEnvName), []byte("SCEXPORT_USERNAME=dotenv-user\nSCEXPORT_OUTPUT=dotenv.csv\n"))

	// .env 覆盖 JSON；endpoint 只在 JSON 中出现。
	eff, err := LoadEffective(cwd, CLIArgs{}, noEnv)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Username != "dotenv-user" || eff.Output != filepath.Join(cwd, "dotenv.csv") || eff.Endpoint != "http://file.test/" {
		t.Fatalf(".env/JSON 合并不正确：%+v", eff)
	}

	// 进程环境变量覆盖 .env。
	eff, err = LoadEffective(cwd, CLIArgs{}, envMap(map[string]string{EnvUsername: "env-user"}))
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Username != "env-user" || eff.Output != filepath.Join(cwd, "dotenv.csv") {
		t.Fatalf("环境变量覆盖不正确：%+v", eff)
	}

	// CLI 覆盖一切。
	eff, err = LoadEffective(cwd, CLIArgs{
		Username: "cli-user", UsernameSet: true,
		Output: "/tmp/cli.csv", OutputSet: true,
		Endpoint: "https://cli.test/graphql", EndpointSet: true,
	}, envMap(map[string]string{EnvUsername: "env-user"}))
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Username != "cli-user" || eff.Output != "/tmp/cli.csv" || eff.Endpoint != "https://cli.test/graphql" {
		t.Fatalf("CLI 覆盖不正确：%+v", eff)
	}
}

func TestLoadEffective_InvalidInputs(t *testing.T) {
	cases := []struct {
		name string
		file string
		cli  CLIArgs
	}{
		{name: "JSON 无法解析", file: `{"username":`},
		{name: "CLI 用户名为空", cli: CLIArgs{Username: " ", UsernameSet: true}},
		{name: "CLI 输出路径为空", cli: CLIArgs{Output: "", OutputSet: true}},
		{name: "endpoint 缺少 scheme", cli: CLIArgs{Endpoint: "apollo.senscritique.com", EndpointSet: true}},
		{name: "endpoint 非 http", cli: CLIArgs{Endpoint: "ftp://x.test/", EndpointSet: true}},
		{name: "JSON 中 endpoint 无效", file: `{"endpoint":"::"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cwd := t.TempDir()
			if tc.file != "" {
				writeFile(t, filepath.Join(cwd, FileName), []byte(tc.file))
			}
			_, err := LoadEffective(cwd, tc.cli, noEnv)
			if Code(err) != ErrCodeInvalid {
				t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
			}
		})
	}
}

func TestLoadEffective_RelativeOutputFromCWD(t *testing.T) {
	cwd := t.TempDir()
	eff, err := LoadEffective(cwd, CLIArgs{Output: "exports/../out.csv", OutputSet: true}, noEnv)
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if want := filepath.Join(cwd, "out.csv"); eff.Output != want {
		t.Fatalf("期望 %q，实际 %q", want, eff.Output)
	}
}

func TestCode_NonConfigError(t *testing.T) {
	if Code(os.ErrNotExist) != "" {
		t.Fatalf("非 *Error 应返回空串")
	}
}

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
}
