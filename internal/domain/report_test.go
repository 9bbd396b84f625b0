package domain

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"
)

func TestExportReport_Finalize_StatusAndUTC(t *testing.T) {
	cases := []struct {
		name     string
		exported int
		code     string
		want     string
	}{
		{"全部成功", 63, "", StatusComplete},
		{"中途失败", 50, ErrCodeTransportFailed, StatusPartial},
		{"首页即失败", 0, ErrCodeTransportFailed, StatusEmpty},
		{"用户不存在", 0, ErrCodeUserNotFound, StatusEmpty},
		{"被中断", 10, ErrCodeCanceled, StatusPartial},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := ExportReport{
				StartedAt:  time.Date(2026, 2, 9, 10, 0, 0, 0, time.FixedZone("X", 8*3600)),
				FinishedAt: time.Date(2026, 2, 9, 10, 0, 1, 0, time.FixedZone("X", 8*3600)),
				Exported:   tc.exported,
				ErrorCode:  tc.code,
			}
			r.Finalize()
			if r.Status != tc.want {
				t.Fatalf("status 期望 %q，实际 %q", tc.want, r.Status)
			}

			b, err := json.Marshal(r)
			if err != nil {
				t.Fatalf("json.Marshal 失败：%v", err)
			}
			if !bytes.Contains(b, []byte("\"started_at\":\"2026-02-09T02:00:00Z\"")) {
				t.Fatalf("started_at 不是 UTC RFC3339：%s", string(b))
			}
		})
	}
}

func TestRawProduct_DecodeMissingFields(t *testing.T) {
	var p RawProduct
	if err := json.Unmarshal([]byte(`{"title":"Alien","directors":null}`), &p); err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if p.Title == nil || *p.Title != "Alien" {
		t.Fatalf("title 解析不正确：%v", p.Title)
	}
	if p.YearOfProduction != nil || p.OtherUserInfos != nil || p.Directors != nil {
		t.Fatalf("缺失字段应保持 nil：%+v", p)
	}
}

func TestExportReport_JSONKeys(t *testing.T) {
	r := ExportReport{RunID: "r", Exported: 3, WriteError: "disk full", WriteErrorCode: ErrCodeIOFailed}
	r.Finalize()

	b, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("json.Marshal 失败：%v", err)
	}
	for _, k := range []string{`"run_id":"r"`, `"status":"complete"`, `"total":null`, `"write_error":"disk full"`, `"write_error_code":"io_failed"`} {
		if !bytes.Contains(b, []byte(k)) {
			t.Fatalf("JSON 缺少 %s：%s", k, string(b))
		}
	}
}
