package logger

import "github.com/ideamans/go-l10n"

func init() {
	l10n.Register("ja", l10n.LexiconMap{
		// Orchestration
		"Rendering frame %d of %d":            "フレーム %d/%d をレンダリング中",
		"Sampling channel %s (%d iterations)": "チャンネル %s をサンプリング中 (%d 反復)",
		"Frame saved to %s":                   "フレームを %s に保存しました",
		"Encoding %s at %d fps, %d bps":       "%s を %d fps, %d bps でエンコード中",
		"Interrupted, shutting down...":       "中断されました。シャットダウン中...",

		"Video written to %s: %d ms, %d tracks, %d bytes": "動画を %s に書き込みました: %d ms, %d トラック, %d バイト",
		"Video written to %s (%d bytes)":                  "動画を %s に書き込みました (%d バイト)",

		// Sample stage
		"Sampling %d points at %d iterations with %d workers": "%d 点を %d 反復, %d ワーカーでサンプリング中",

		"Worker %d finished": "ワーカー %d が完了しました",

		// Compose stage
		"Downscaling %dx%d to %dx%d": "%dx%d を %dx%d に縮小中",

		// Write stage
		"Wrote %s (%d bytes)": "%s を書き込みました (%d バイト)",

		// Encode stage
		"%d frames match %s":     "%d フレームが %s に一致",
		"Could not probe %s: %s": "%s を解析できませんでした: %s",

		// CLI
		"encode requires exactly one output path": "encode には出力パスを 1 つ指定してください",
		"movie requires exactly one output path":  "movie には出力パスを 1 つ指定してください",
		"probe requires exactly one file path":    "probe にはファイルパスを 1 つ指定してください",

		"duration: %d ms": "再生時間: %d ms",
		"tracks: %d":      "トラック数: %d",
		"timescale: %d":   "タイムスケール: %d",

		// Failures
		"Failed to sample channel %s: %s": "チャンネル %s のサンプリングに失敗しました: %s",
		"Failed to compose frame %d: %s":  "フレーム %d の合成に失敗しました: %s",
		"Failed to write frame %d: %s":    "フレーム %d の書き込みに失敗しました: %s",
	})
}
