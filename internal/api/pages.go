package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// setPageRoutes registers the static HTML pages and the crawler
// files. The pages are self-contained; no asset pipeline exists.
func setPageRoutes(ec *echo.Echo) {
	ec.GET("/", servePage(pageIndex))
	ec.GET("/privacy", servePage(pagePrivacy))
	ec.GET("/pinterest", servePage(pagePinterest))
	ec.GET("/disclaimer", servePage(pageDisclaimer))

	ec.GET("/robots.txt", func(ec echo.Context) error {
		return ec.String(http.StatusOK, robotsTxt)
	})
	ec.GET("/sitemap.xml", func(ec echo.Context) error {
		return ec.Blob(http.StatusOK, "application/xml", []byte(sitemapXML))
	})
}

func servePage(body string) echo.HandlerFunc {
	return func(ec echo.Context) error {
		return ec.HTML(http.StatusOK, body)
	}
}

const robotsTxt = `User-agent: *
Allow: /
Disallow: /get_file/
Disallow: /download
Disallow: /get_video_info

Sitemap: /sitemap.xml
`

const sitemapXML = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>/</loc></url>
  <url><loc>/pinterest</loc></url>
  <url><loc>/privacy</loc></url>
  <url><loc>/disclaimer</loc></url>
</urlset>
`

const pageIndex = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>vidgrab - TikTok &amp; Pinterest Video Downloader</title>
<style>
body{font-family:sans-serif;max-width:640px;margin:2rem auto;padding:0 1rem}
input,select,button{font-size:1rem;padding:.5rem;margin:.25rem 0}
input{width:100%;box-sizing:border-box}
#result,#error{margin-top:1rem}
#error{color:#b00}
</style>
</head>
<body>
<h1>vidgrab</h1>
<p>Paste a TikTok or Pinterest post URL to download the video.</p>
<input id="url" type="url" placeholder="https://www.tiktok.com/@user/video/...">
<select id="quality">
<option value="best">Best</option>
<option value="1080p">1080p</option>
<option value="720p">720p</option>
<option value="480p">480p</option>
</select>
<button onclick="fetchInfo()">Get info</button>
<button onclick="startDownload()">Download</button>
<div id="result"></div>
<div id="error"></div>
<script>
async function post(path, body) {
  const resp = await fetch(path, {
    method: 'POST',
    headers: {'Content-Type': 'application/json'},
    body: JSON.stringify(body)
  });
  return resp.json();
}
async function fetchInfo() {
  clear();
  const data = await post('/get_video_info', {url: val('url')});
  if (!data.success) { show('error', data.error); return; }
  show('result', '<b>' + esc(data.title) + '</b><br>Available: ' + data.qualities.join(', '));
}
async function startDownload() {
  clear();
  show('result', 'Downloading…');
  const data = await post('/download', {url: val('url'), quality: val('quality')});
  if (!data.success) { show('result', ''); show('error', data.error); return; }
  show('result', '<a href="' + data.download_url + '">Save "' + esc(data.title) + '" (' + data.quality + ')</a>');
}
function val(id) { return document.getElementById(id).value; }
function show(id, html) { document.getElementById(id).innerHTML = html; }
function clear() { show('result', ''); show('error', ''); }
function esc(s) { const d = document.createElement('div'); d.innerText = s; return d.innerHTML; }
</script>
<footer><small><a href="/pinterest">Pinterest</a> · <a href="/privacy">Privacy</a> · <a href="/disclaimer">Disclaimer</a></small></footer>
</body>
</html>`

const pagePinterest = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Pinterest Video Downloader - vidgrab</title></head>
<body>
<h1>Pinterest Video Downloader</h1>
<p>Paste a pinterest.com or pin.it link on the <a href="/">main page</a> to download the pinned video.</p>
</body>
</html>`

const pagePrivacy = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Privacy Policy - vidgrab</title></head>
<body>
<h1>Privacy Policy</h1>
<p>Submitted URLs are only used to fetch the requested media. Downloaded files
are stored under random names and removed automatically within one hour. No
accounts, no tracking, no long-term storage.</p>
<p><a href="/">Back</a></p>
</body>
</html>`

const pageDisclaimer = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Disclaimer - vidgrab</title></head>
<body>
<h1>Disclaimer</h1>
<p>This tool is for downloading your own content or content you have permission
to save. Respect the source platforms' terms of service and the rights of
content creators.</p>
<p><a href="/">Back</a></p>
</body>
</html>`
