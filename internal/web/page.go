package web

// dashboardHTML is the self-contained dashboard page. It polls the JSON
// endpoints and re-requests the chart images on the same cadence the
// poller refreshes the window.
const dashboardHTML = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>EnviroSense Dashboard</title>
  <style>
    :root {
      --bg: #0f172a;
      --card: #1e293b;
      --ink: #e2e8f0;
      --muted: #94a3b8;
      --border: #334155;
      --ok: #10b981;
      --alert: #ef4444;
    }
    * { box-sizing: border-box; }
    body {
      margin: 0;
      font-family: "Segoe UI", "Helvetica Neue", Arial, sans-serif;
      background: var(--bg);
      color: var(--ink);
    }
    header {
      padding: 18px 28px;
      border-bottom: 1px solid var(--border);
    }
    h1 { margin: 0; font-size: 20px; letter-spacing: 1px; }
    main { padding: 20px 28px; display: grid; gap: 20px; }
    .card {
      background: var(--card);
      border: 1px solid var(--border);
      border-radius: 8px;
      padding: 16px 20px;
    }
    .tile { display: flex; gap: 32px; align-items: baseline; flex-wrap: wrap; }
    .tile .when { color: var(--muted); font-size: 14px; }
    .tile .value { font-size: 26px; font-weight: 600; }
    .tile .status-ok { color: var(--ok); }
    .tile .status-alert { color: var(--alert); font-weight: 700; }
    .metric { display: grid; grid-template-columns: 2fr 1fr; gap: 20px; }
    .metric img { width: 100%; border-radius: 4px; background: #fff; }
    table { width: 100%; border-collapse: collapse; font-size: 13px; }
    th, td { text-align: left; padding: 4px 8px; border-bottom: 1px solid var(--border); }
    th { color: var(--muted); font-weight: 600; }
    .err { color: var(--alert); font-size: 13px; }
    @media (max-width: 900px) { .metric { grid-template-columns: 1fr; } }
  </style>
</head>
<body>
  <header><h1>ENVIROSENSE DASHBOARD</h1></header>
  <main>
    <section class="card tile" id="latest">
      <span class="when" id="latest-time">waiting for data&hellip;</span>
      <span class="value" id="latest-temperature">&ndash;</span>
      <span class="value" id="latest-light">&ndash;</span>
      <span id="latest-status"></span>
    </section>

    <section class="card metric">
      <div><img id="chart-temperature" src="/charts/temperature.png" alt="Temperature chart" /></div>
      <div>
        <table>
          <thead><tr><th>Time</th><th>Temperature (&deg;C)</th></tr></thead>
          <tbody id="table-temperature"></tbody>
        </table>
      </div>
    </section>

    <section class="card metric">
      <div><img id="chart-light" src="/charts/light.png" alt="Light chart" /></div>
      <div>
        <table>
          <thead><tr><th>Time</th><th>Light (lux)</th></tr></thead>
          <tbody id="table-light"></tbody>
        </table>
      </div>
    </section>

    <p class="err" id="error"></p>
  </main>

  <script>
    const REFRESH_MS = 5000;

    function setText(id, text) {
      const el = document.getElementById(id);
      if (el) el.textContent = text;
    }

    function fillTable(id, rows, pick) {
      const body = document.getElementById(id);
      if (!body) return;
      body.innerHTML = "";
      for (const row of rows) {
        const tr = document.createElement("tr");
        const td1 = document.createElement("td");
        const td2 = document.createElement("td");
        td1.textContent = row.time_display;
        td2.textContent = pick(row).toFixed(2);
        tr.append(td1, td2);
        body.append(tr);
      }
    }

    async function refresh() {
      try {
        const [latest, readings] = await Promise.all([
          fetch("/api/latest").then((r) => r.json()),
          fetch("/api/readings").then((r) => r.json()),
        ]);
        if (latest.error || readings.error) {
          setText("error", latest.error || readings.error);
          return;
        }
        setText("error", "");
        setText("latest-time", latest.time_display);
        setText("latest-temperature", latest.temperature.toFixed(2) + " °C");
        setText("latest-light", latest.light_lux.toFixed(2) + " lux");
        const status = document.getElementById("latest-status");
        if (status) {
          status.textContent = latest.status === "OK" ? "● normal" : "● " + latest.status;
          status.className = latest.status === "OK" ? "status-ok" : "status-alert";
        }
        fillTable("table-temperature", readings.readings, (r) => r.temperature);
        fillTable("table-light", readings.readings, (r) => r.light_lux);
        for (const id of ["chart-temperature", "chart-light"]) {
          const img = document.getElementById(id);
          if (img) img.src = img.src.split("?")[0] + "?t=" + Date.now();
        }
      } catch (err) {
        setText("error", String(err));
      }
    }

    refresh();
    setInterval(refresh, REFRESH_MS);
  </script>
</body>
</html>
`
