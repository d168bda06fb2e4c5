package notify

const emailHTMLTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>SAR Train Tickets Available</title>
  <style>
    body {
      margin: 0;
      padding: 24px;
      background-color: #f3f4f6;
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Arial, sans-serif;
      color: #111827;
      line-height: 1.5;
    }

    .container {
      max-width: 720px;
      margin: 0 auto;
      background: #ffffff;
      border-radius: 8px;
      border: 1px solid #e5e7eb;
      overflow: hidden;
    }

    .header {
      padding: 20px 24px;
      background: #2e7d32;
      color: #ffffff;
    }

    .headline {
      font-size: 22px;
      font-weight: 700;
      margin-bottom: 4px;
    }

    .subline {
      font-size: 14px;
      opacity: 0.9;
    }

    .section {
      padding: 16px 24px;
    }

    table.trips {
      border-collapse: collapse;
      width: 100%;
      font-size: 14px;
    }

    table.trips th {
      padding: 10px;
      border: 1px solid #ddd;
      background-color: #e8f5e9;
      text-align: left;
    }

    table.trips td {
      padding: 10px;
      border: 1px solid #ddd;
      vertical-align: top;
    }

    .reason {
      display: inline-block;
      padding: 2px 8px;
      font-size: 11px;
      font-weight: 600;
      background: #e0f2fe;
      color: #0369a1;
      border-radius: 4px;
    }

    .evidence {
      margin-top: 6px;
      font-size: 12px;
      font-style: italic;
      color: #6b7280;
    }

    .digest {
      margin: 6px 0 0 0;
      padding-left: 18px;
      font-size: 12px;
      color: #374151;
    }

    .book {
      color: #1976d2;
      font-weight: 600;
      text-decoration: none;
    }

    .footer {
      padding: 16px 24px;
      font-size: 12px;
      color: #666666;
      background: #f9fafb;
      border-top: 1px solid #f3f4f6;
    }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <div class="headline">SAR Train Tickets Available!</div>
      <div class="subline">{{len .Records}} date(s) with bookable trips</div>
    </div>

    <div class="section">
      <table class="trips">
        <tr>
          <th>Route</th>
          <th>Date</th>
          <th>Found</th>
          <th>Link</th>
        </tr>
        {{range .Records}}
        <tr>
          <td>{{.Route}}</td>
          <td>{{day .}}<br /><small>{{.Weekday}}</small></td>
          <td>
            <span class="reason">{{.Reason}}</span>
            {{if .Evidence}}<div class="evidence">{{.Evidence}}</div>{{end}}
            {{if .Digest}}
            <ul class="digest">
              {{range .Digest}}<li>{{.}}</li>{{end}}
            </ul>
            {{end}}
          </td>
          <td><a href="{{.URL}}" class="book" target="_blank" rel="noopener">Book Now</a></td>
        </tr>
        {{end}}
      </table>
    </div>

    <div class="footer">
      <strong>Note:</strong> Book quickly as tickets may sell out!
    </div>
  </div>
</body>
</html>`
